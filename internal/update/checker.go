package update

import (
	"context"
	"fmt"

	"github.com/adamancini/ffupdate/internal/device"
	"github.com/adamancini/ffupdate/internal/types"
)

// Checker compares installed variants against the published versions.
type Checker struct {
	enumerator *device.Enumerator
	metadata   MetadataFetcher
	ci         CIFetcher
	abi        types.ABI
	excluded   map[types.Variant]bool
}

// NewChecker creates a checker.
func NewChecker(enumerator *device.Enumerator, metadata MetadataFetcher) *Checker {
	return &Checker{enumerator: enumerator, metadata: metadata}
}

// WithMozillaCI also checks the variants ci tracks, for builds on abi.
func (c *Checker) WithMozillaCI(ci CIFetcher, abi types.ABI) *Checker {
	c.ci = ci
	c.abi = abi
	return c
}

// WithExcluded skips the update check of the given variants.
func (c *Checker) WithExcluded(excluded map[types.Variant]bool) *Checker {
	c.excluded = excluded
	return c
}

// Check returns the status of every installed variant in catalog order.
// Metadata is fetched once, and only when a tracked variant is installed.
// It fails when the device cannot be read.
func (c *Checker) Check(ctx context.Context) ([]AppStatus, error) {
	apps, err := c.enumerator.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var desc VersionDescriptor
	fetched := false

	statuses := make([]AppStatus, 0, len(apps))
	for _, app := range apps {
		info := app.Variant.Info()
		status := AppStatus{
			Variant:   app.Variant,
			Title:     info.Title,
			Installed: app.Version,
		}

		switch {
		case c.excluded[app.Variant]:
			status.Excluded = true

		case info.Family != types.FamilyNone:
			if !fetched {
				desc, err = c.metadata.Fetch(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to check for updates: %w", err)
				}
				fetched = true
			}
			if available, ok := desc.For(info.Family); ok {
				status.Tracked = true
				status.Available = available
				status.Outdated = IsOutdated(app.Version, available)
			}

		case c.ci != nil && c.ci.Tracks(app.Variant) && app.Variant.Supports(c.abi):
			release, err := c.ci.Fetch(ctx, app.Variant, c.abi)
			if err != nil {
				return nil, fmt.Errorf("failed to check for updates of %s: %w", app.Variant, err)
			}
			status.Tracked = true
			status.Available = release.Version
			status.Outdated = IsOutdated(app.Version, release.Version)
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
