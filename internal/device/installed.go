package device

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/types"
)

// InstalledApp pairs an installed variant with its installed version.
type InstalledApp struct {
	Variant types.Variant `json:"variant" yaml:"variant"`
	Version string        `json:"version" yaml:"version"`
}

// Enumerator answers "which variants are installed" against live device
// state. Nothing is cached: every call goes to the package manager.
type Enumerator struct {
	pm  PackageManager
	log logrus.FieldLogger
}

// NewEnumerator creates an enumerator over pm. A nil log discards output.
func NewEnumerator(pm PackageManager, log logrus.FieldLogger) *Enumerator {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Enumerator{pm: pm, log: log}
}

// lookup returns the installed version of v. A "not found" answer is
// reported as ("", nil); any other failure is returned.
func (e *Enumerator) lookup(ctx context.Context, v types.Variant) (string, error) {
	version, err := e.pm.Lookup(ctx, v.PackageID())
	if errors.Is(err, ErrPackageNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up %s: %w", v.PackageID(), err)
	}
	return version, nil
}

// VersionOf returns the installed version of v, or "" when it is not
// installed. Lookup failures never escape: anything other than "not found"
// is logged and also reported as "". Callers that must tell an unreadable
// device from an empty one use Partition or Snapshot.
func (e *Enumerator) VersionOf(ctx context.Context, v types.Variant) string {
	version, err := e.lookup(ctx, v)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"variant": v,
			"package": v.PackageID(),
		}).WithError(err).Warn("package lookup failed")
		return ""
	}
	return version
}

// IsInstalled reports whether v is installed.
func (e *Enumerator) IsInstalled(ctx context.Context, v types.Variant) bool {
	return e.VersionOf(ctx, v) != ""
}

// Installed returns the installed variants in catalog order.
func (e *Enumerator) Installed(ctx context.Context) []types.Variant {
	installed := []types.Variant{}
	for _, v := range types.AllVariants() {
		if e.IsInstalled(ctx, v) {
			installed = append(installed, v)
		}
	}
	return installed
}

// NotInstalled returns the variants that are not installed, in catalog order.
func (e *Enumerator) NotInstalled(ctx context.Context) []types.Variant {
	notInstalled := []types.Variant{}
	for _, v := range types.AllVariants() {
		if !e.IsInstalled(ctx, v) {
			notInstalled = append(notInstalled, v)
		}
	}
	return notInstalled
}

// Partition splits the catalog into installed and not installed variants
// from a single pass over the package manager, so every variant lands on
// exactly one side. It stops at the first lookup that fails for a reason
// other than "not found".
func (e *Enumerator) Partition(ctx context.Context) (installed, notInstalled []types.Variant, err error) {
	installed = []types.Variant{}
	notInstalled = []types.Variant{}
	for _, v := range types.AllVariants() {
		version, err := e.lookup(ctx, v)
		if err != nil {
			return nil, nil, err
		}
		if version != "" {
			installed = append(installed, v)
		} else {
			notInstalled = append(notInstalled, v)
		}
	}
	return installed, notInstalled, nil
}

// Snapshot returns every installed variant with its version. Like
// Partition, it fails when the package manager cannot be read.
func (e *Enumerator) Snapshot(ctx context.Context) ([]InstalledApp, error) {
	apps := []InstalledApp{}
	for _, v := range types.AllVariants() {
		version, err := e.lookup(ctx, v)
		if err != nil {
			return nil, err
		}
		if version != "" {
			apps = append(apps, InstalledApp{Variant: v, Version: version})
		}
	}
	return apps, nil
}
