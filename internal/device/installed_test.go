package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/adamancini/ffupdate/internal/types"
)

// fakePackageManager answers lookups from a map and counts calls.
type fakePackageManager struct {
	versions map[string]string
	errs     map[string]error
	calls    int
}

func (f *fakePackageManager) Lookup(ctx context.Context, packageID string) (string, error) {
	f.calls++
	if err, ok := f.errs[packageID]; ok {
		return "", err
	}
	if v, ok := f.versions[packageID]; ok {
		return v, nil
	}
	return "", fmt.Errorf("%s: %w", packageID, ErrPackageNotFound)
}

var testVersions = map[types.Variant]string{
	types.VariantFennecRelease: "68.7.0",
	types.VariantFennecBeta:    "68.7",
	types.VariantFennecNightly: "68.5a1",
	types.VariantFirefoxKlar:   "8.2.0",
	types.VariantFirefoxFocus:  "8.2.0",
	types.VariantFirefoxLite:   "2.1.13(19177)",
	types.VariantFenix:         "4.2.1",
}

func installedPM(variants ...types.Variant) *fakePackageManager {
	pm := &fakePackageManager{versions: make(map[string]string)}
	for _, v := range variants {
		pm.versions[v.PackageID()] = testVersions[v]
	}
	return pm
}

func TestVersionOfInstalled(t *testing.T) {
	for _, v := range types.AllVariants() {
		t.Run(v.String(), func(t *testing.T) {
			e := NewEnumerator(installedPM(v), nil)
			if got := e.VersionOf(context.Background(), v); got != testVersions[v] {
				t.Errorf("VersionOf(%s) = %q, want %q", v, got, testVersions[v])
			}
			if !e.IsInstalled(context.Background(), v) {
				t.Errorf("IsInstalled(%s) = false, want true", v)
			}
		})
	}
}

func TestVersionOfNotInstalled(t *testing.T) {
	for _, v := range types.AllVariants() {
		t.Run(v.String(), func(t *testing.T) {
			e := NewEnumerator(installedPM(), nil)
			if got := e.VersionOf(context.Background(), v); got != "" {
				t.Errorf("VersionOf(%s) = %q, want empty", v, got)
			}
			if e.IsInstalled(context.Background(), v) {
				t.Errorf("IsInstalled(%s) = true, want false", v)
			}
		})
	}
}

func TestVersionOfLookupFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	pm := &fakePackageManager{errs: map[string]error{
		types.VariantFenix.PackageID(): fmt.Errorf("%w: device offline", ErrNoDevice),
	}}
	e := NewEnumerator(pm, log)

	if got := e.VersionOf(context.Background(), types.VariantFenix); got != "" {
		t.Errorf("VersionOf() = %q, want empty on lookup failure", got)
	}
	if !strings.Contains(buf.String(), "package lookup failed") {
		t.Errorf("expected lookup failure to be logged, got: %s", buf.String())
	}

	buf.Reset()
	e.VersionOf(context.Background(), types.VariantFennecBeta)
	if buf.Len() != 0 {
		t.Errorf("not-found should not be logged, got: %s", buf.String())
	}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name          string
		installed     []types.Variant
		wantInstalled []types.Variant
		wantMissing   []types.Variant
	}{
		{
			name:          "none installed",
			installed:     nil,
			wantInstalled: []types.Variant{},
			wantMissing:   types.AllVariants(),
		},
		{
			name:          "some installed",
			installed:     []types.Variant{types.VariantFennecBeta, types.VariantFirefoxKlar, types.VariantFirefoxLite},
			wantInstalled: []types.Variant{types.VariantFennecBeta, types.VariantFirefoxKlar, types.VariantFirefoxLite},
			wantMissing: []types.Variant{
				types.VariantFennecRelease, types.VariantFennecNightly,
				types.VariantFirefoxFocus, types.VariantFenix,
			},
		},
		{
			name:          "all installed",
			installed:     types.AllVariants(),
			wantInstalled: types.AllVariants(),
			wantMissing:   []types.Variant{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEnumerator(installedPM(tt.installed...), nil)
			ctx := context.Background()

			if got := e.Installed(ctx); !equalVariants(got, tt.wantInstalled) {
				t.Errorf("Installed() = %v, want %v", got, tt.wantInstalled)
			}
			if got := e.NotInstalled(ctx); !equalVariants(got, tt.wantMissing) {
				t.Errorf("NotInstalled() = %v, want %v", got, tt.wantMissing)
			}
		})
	}
}

func TestPartitionIsBipartition(t *testing.T) {
	all := types.AllVariants()
	// Every subset of the catalog.
	for mask := 0; mask < 1<<len(all); mask++ {
		var subset []types.Variant
		for i, v := range all {
			if mask&(1<<i) != 0 {
				subset = append(subset, v)
			}
		}

		installed, missing, err := NewEnumerator(installedPM(subset...), nil).Partition(context.Background())
		if err != nil {
			t.Fatalf("mask %b: Partition() error = %v", mask, err)
		}
		seen := make(map[types.Variant]int)
		for _, v := range installed {
			seen[v]++
		}
		for _, v := range missing {
			seen[v]++
		}
		if len(seen) != len(all) {
			t.Fatalf("mask %b: union has %d variants, want %d", mask, len(seen), len(all))
		}
		for v, n := range seen {
			if n != 1 {
				t.Fatalf("mask %b: %s appears %d times", mask, v, n)
			}
		}
	}
}

func TestEnumeratorDoesNotCache(t *testing.T) {
	pm := installedPM()
	e := NewEnumerator(pm, nil)
	ctx := context.Background()

	if e.IsInstalled(ctx, types.VariantFenix) {
		t.Fatal("fenix should not be installed yet")
	}
	pm.versions[types.VariantFenix.PackageID()] = "4.2.1"
	if !e.IsInstalled(ctx, types.VariantFenix) {
		t.Error("fenix install should be visible on the next query")
	}
	if pm.calls != 2 {
		t.Errorf("package manager calls = %d, want 2", pm.calls)
	}
}

func TestSnapshot(t *testing.T) {
	e := NewEnumerator(installedPM(types.VariantFennecRelease, types.VariantFenix), nil)
	apps, err := e.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	want := []InstalledApp{
		{Variant: types.VariantFennecRelease, Version: "68.7.0"},
		{Variant: types.VariantFenix, Version: "4.2.1"},
	}
	if len(apps) != len(want) {
		t.Fatalf("Snapshot() = %v, want %v", apps, want)
	}
	for i := range want {
		if apps[i] != want[i] {
			t.Errorf("Snapshot()[%d] = %v, want %v", i, apps[i], want[i])
		}
	}
}

func TestUnreadableDeviceIsAnError(t *testing.T) {
	offline := fmt.Errorf("%w: device offline", ErrNoDevice)
	pm := installedPM(types.VariantFennecRelease)
	pm.errs = map[string]error{types.VariantFennecBeta.PackageID(): offline}
	e := NewEnumerator(pm, nil)
	ctx := context.Background()

	if _, _, err := e.Partition(ctx); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Partition() error = %v, want ErrNoDevice", err)
	}
	if _, err := e.Snapshot(ctx); !errors.Is(err, ErrNoDevice) {
		t.Errorf("Snapshot() error = %v, want ErrNoDevice", err)
	}

	// The boundary operations still answer.
	if got := e.VersionOf(ctx, types.VariantFennecBeta); got != "" {
		t.Errorf("VersionOf() = %q, want empty", got)
	}
	if got := e.Installed(ctx); !equalVariants(got, []types.Variant{types.VariantFennecRelease}) {
		t.Errorf("Installed() = %v", got)
	}
}

func TestMissingInventoryIsAnError(t *testing.T) {
	e := NewEnumerator(&InventoryPackageManager{Path: filepath.Join(t.TempDir(), "typo.yaml")}, nil)

	if _, err := e.Snapshot(context.Background()); err == nil || !strings.Contains(err.Error(), "failed to read inventory") {
		t.Errorf("Snapshot() error = %v, want read failure", err)
	}
	if _, _, err := e.Partition(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Partition() error = %v, want os.ErrNotExist", err)
	}
}

func TestLookupErrorsAreNotFound(t *testing.T) {
	pm := installedPM()
	_, err := pm.Lookup(context.Background(), "org.example")
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("fake should report ErrPackageNotFound, got %v", err)
	}
}

func equalVariants(a, b []types.Variant) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
