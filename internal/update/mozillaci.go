package update

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/adamancini/ffupdate/internal/types"
)

// DefaultCIIndexURL is the task index of Mozilla's firefox-ci cluster.
const DefaultCIIndexURL = "https://firefox-ci-tc.services.mozilla.com/api/index/v1/task"

// chainOfTrustLog is the artifact every signed firefox-ci task publishes.
// It echoes the task's release metadata.
const chainOfTrustLog = "public/logs/chain_of_trust.log"

// maxLogSize bounds how much of the log is read.
const maxLogSize = 8 << 20

var (
	ciVersionPattern   = regexp.MustCompile(`'(?:version|tag_name)': 'v?([^']+)'`)
	ciPublishedPattern = regexp.MustCompile(`'(?:published_at|now)': '([^']+)'`)
)

// CISource names the index task of a variant and the APK artifact it
// publishes. Both may contain an {abi} placeholder, replaced by the
// Android ABI name (arm64-v8a, armeabi-v7a, x86, x86_64).
type CISource struct {
	Task     string
	Artifact string
}

// defaultCISources covers the variants that are not on ftp.mozilla.org.
// Firefox Lite is released outside Mozilla's CI and stays untracked.
var defaultCISources = map[types.Variant]CISource{
	types.VariantFirefoxFocus: {
		Task:     "project.mobile.focus.release.latest",
		Artifact: "public/app-focus-{abi}-release-unsigned.apk",
	},
	types.VariantFirefoxKlar: {
		Task:     "project.mobile.focus.release.latest",
		Artifact: "public/app-klar-{abi}-release-unsigned.apk",
	},
	types.VariantFenix: {
		Task:     "mobile.v2.fenix.nightly.latest.{abi}",
		Artifact: "public/build/{abi}/target.apk",
	},
}

var ciABINames = map[types.ABI]string{
	types.ABIAarch64: "arm64-v8a",
	types.ABIArm:     "armeabi-v7a",
	types.ABIX86:     "x86",
	types.ABIX8664:   "x86_64",
}

// CIRelease is the latest build of a variant found on Mozilla's CI.
type CIRelease struct {
	Version   string    `json:"version" yaml:"version"`
	URL       string    `json:"url" yaml:"url"`
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
}

// MozillaCIFetcher reads the latest version of a variant from the chain of
// trust log of its firefox-ci index task.
type MozillaCIFetcher struct {
	indexURL string
	client   *http.Client
	sources  map[types.Variant]CISource
}

// NewMozillaCIFetcher creates a fetcher for the task index at indexURL,
// DefaultCIIndexURL when empty.
func NewMozillaCIFetcher(indexURL string) *MozillaCIFetcher {
	if indexURL == "" {
		indexURL = DefaultCIIndexURL
	}
	sources := make(map[types.Variant]CISource, len(defaultCISources))
	for v, src := range defaultCISources {
		sources[v] = src
	}
	return &MozillaCIFetcher{
		indexURL: strings.TrimRight(indexURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		sources: sources,
	}
}

// WithClient replaces the HTTP client (for testing).
func (f *MozillaCIFetcher) WithClient(client *http.Client) *MozillaCIFetcher {
	f.client = client
	return f
}

// WithSource sets the task and artifact used for variant.
func (f *MozillaCIFetcher) WithSource(variant types.Variant, src CISource) *MozillaCIFetcher {
	f.sources[variant] = src
	return f
}

// Tracks implements CIFetcher.
func (f *MozillaCIFetcher) Tracks(variant types.Variant) bool {
	_, ok := f.sources[variant]
	return ok
}

// Fetch implements CIFetcher.
func (f *MozillaCIFetcher) Fetch(ctx context.Context, variant types.Variant, abi types.ABI) (CIRelease, error) {
	src, ok := f.sources[variant]
	if !ok {
		return CIRelease{}, fmt.Errorf("%s is not built on mozilla ci: %w", variant, ErrUnsupported)
	}
	abiName, ok := ciABINames[abi]
	if !ok || !variant.Supports(abi) {
		return CIRelease{}, fmt.Errorf("%s is not built for %s: %w", variant, abi, ErrUnsupported)
	}

	base := f.indexURL + "/" + strings.ReplaceAll(src.Task, "{abi}", abiName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/artifacts/"+chainOfTrustLog, nil)
	if err != nil {
		return CIRelease{}, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return CIRelease{}, fmt.Errorf("failed to fetch %s release log: %w", variant, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CIRelease{}, fmt.Errorf("%s release log returned status %d", variant, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLogSize))
	if err != nil {
		return CIRelease{}, fmt.Errorf("failed to read %s release log: %w", variant, err)
	}

	release, err := parseChainOfTrust(string(body))
	if err != nil {
		return CIRelease{}, fmt.Errorf("%s: %w", variant, err)
	}
	release.URL = base + "/artifacts/" + strings.ReplaceAll(src.Artifact, "{abi}", abiName)
	return release, nil
}

// parseChainOfTrust extracts the version and release date the log echoes
// from the task definition, e.g.
//
//	'version': 'v8.2.0'
//	'now': '2020-04-15T06:01:42.123Z'
func parseChainOfTrust(log string) (CIRelease, error) {
	m := ciVersionPattern.FindStringSubmatch(log)
	if m == nil {
		return CIRelease{}, fmt.Errorf("no version found in release log")
	}
	release := CIRelease{Version: m[1]}

	if m := ciPublishedPattern.FindStringSubmatch(log); m != nil {
		published, err := time.Parse(time.RFC3339, m[1])
		if err != nil {
			return CIRelease{}, fmt.Errorf("invalid release date %q: %w", m[1], err)
		}
		release.Published = published
	}
	return release, nil
}

// CIFileName is the local file name of a Mozilla CI download, since the
// artifact names do not carry the version.
func CIFileName(variant types.Variant, version string, abi types.ABI) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, version)
	return fmt.Sprintf("%s-%s-%s.apk", variant, clean, abi)
}
