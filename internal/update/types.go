// Package update resolves and downloads Firefox-family APKs from Mozilla's
// release infrastructure.
package update

import (
	"context"
	"errors"

	"github.com/adamancini/ffupdate/internal/types"
)

// ErrUnsupported is returned when a variant/ABI pair has no download URL
// mapping. It is a configuration error and is never retried.
var ErrUnsupported = errors.New("unsupported variant or abi")

// VersionDescriptor holds the current version names per channel as
// published by Mozilla. It is a snapshot and is not refreshed.
type VersionDescriptor struct {
	Release string `json:"release" yaml:"release"`
	Beta    string `json:"beta" yaml:"beta"`
	Nightly string `json:"nightly" yaml:"nightly"`
}

// For returns the version name for a template family.
func (d VersionDescriptor) For(family types.Family) (string, bool) {
	switch family {
	case types.FamilyRelease:
		return d.Release, d.Release != ""
	case types.FamilyBeta:
		return d.Beta, d.Beta != ""
	case types.FamilyNightly:
		return d.Nightly, d.Nightly != ""
	}
	return "", false
}

// MetadataFetcher fetches the current version descriptor.
type MetadataFetcher interface {
	Fetch(ctx context.Context) (VersionDescriptor, error)
}

// CIFetcher fetches the latest build of the variants published on
// Mozilla's CI rather than ftp.mozilla.org.
type CIFetcher interface {
	Tracks(variant types.Variant) bool
	Fetch(ctx context.Context, variant types.Variant, abi types.ABI) (CIRelease, error)
}

// Prober checks whether a URL exists.
type Prober interface {
	Exists(ctx context.Context, url string) bool
}

// Downloader downloads an APK to a local file.
type Downloader interface {
	Download(ctx context.Context, url string, dst string) error
}

// AppStatus describes one installed variant against the latest published version.
type AppStatus struct {
	Variant   types.Variant `json:"variant" yaml:"variant"`
	Title     string        `json:"title" yaml:"title"`
	Installed string        `json:"installed" yaml:"installed"`
	// Available is empty when the variant is not tracked.
	Available string `json:"available,omitempty" yaml:"available,omitempty"`
	Outdated  bool   `json:"outdated" yaml:"outdated"`
	// Tracked reports whether ffupdate knows where the variant is published.
	Tracked bool `json:"tracked" yaml:"tracked"`
	// Excluded is set for variants the configuration leaves out of update checks.
	Excluded bool `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}
