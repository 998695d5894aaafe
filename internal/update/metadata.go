package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// mobileVersions is the subset of product-details mobile_versions.json ffupdate reads.
type mobileVersions struct {
	Version        string `json:"version"`
	BetaVersion    string `json:"beta_version"`
	NightlyVersion string `json:"nightly_version"`
}

// ProductDetailsFetcher reads version names from Mozilla's product-details API.
type ProductDetailsFetcher struct {
	url    string
	client *http.Client
}

// NewProductDetailsFetcher creates a fetcher for the given mobile_versions.json URL.
func NewProductDetailsFetcher(url string) *ProductDetailsFetcher {
	return &ProductDetailsFetcher{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithClient replaces the HTTP client (for testing).
func (f *ProductDetailsFetcher) WithClient(client *http.Client) *ProductDetailsFetcher {
	f.client = client
	return f
}

// Fetch implements MetadataFetcher.
func (f *ProductDetailsFetcher) Fetch(ctx context.Context) (VersionDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return VersionDescriptor{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return VersionDescriptor{}, fmt.Errorf("failed to fetch version metadata: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return VersionDescriptor{}, fmt.Errorf("version metadata returned status %d", resp.StatusCode)
	}

	var versions mobileVersions
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return VersionDescriptor{}, fmt.Errorf("failed to decode version metadata: %w", err)
	}

	return VersionDescriptor{
		Release: versions.Version,
		Beta:    versions.BetaVersion,
		Nightly: versions.NightlyVersion,
	}, nil
}
