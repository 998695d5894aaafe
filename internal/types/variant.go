package types

import (
	"fmt"
	"strings"
)

// Variant represents a distributable build of a Firefox-family browser.
type Variant string

const (
	VariantFennecRelease Variant = "fennec_release"
	VariantFennecBeta    Variant = "fennec_beta"
	VariantFennecNightly Variant = "fennec_nightly"
	VariantFirefoxKlar   Variant = "firefox_klar"
	VariantFirefoxFocus  Variant = "firefox_focus"
	VariantFirefoxLite   Variant = "firefox_lite"
	VariantFenix         Variant = "fenix"
)

// Family selects the download URL template for a variant.
type Family string

const (
	FamilyRelease Family = "release"
	FamilyBeta    Family = "beta"
	FamilyNightly Family = "nightly"
	// FamilyNone marks variants that are not published on ftp.mozilla.org.
	FamilyNone Family = ""
)

// VariantInfo is one row of the variant catalog.
type VariantInfo struct {
	Variant      Variant
	Title        string
	PackageID    string
	ExcludedABIs []ABI
	Family       Family
	Warning      string
}

// catalog is ordered; every listing in ffupdate follows this order.
var catalog = []VariantInfo{
	{
		Variant:   VariantFennecRelease,
		Title:     "Firefox Release",
		PackageID: "org.mozilla.firefox",
		Family:    FamilyRelease,
		Warning:   "Fennec is end-of-life and no longer receives security fixes.",
	},
	{
		Variant:   VariantFennecBeta,
		Title:     "Firefox Beta",
		PackageID: "org.mozilla.firefox_beta",
		Family:    FamilyBeta,
		Warning:   "Fennec is end-of-life and no longer receives security fixes.",
	},
	{
		Variant:   VariantFennecNightly,
		Title:     "Firefox Nightly",
		PackageID: "org.mozilla.fennec_aurora",
		Family:    FamilyNightly,
		Warning:   "Nightly builds are untested and may be unstable.",
	},
	{
		Variant:      VariantFirefoxKlar,
		Title:        "Firefox Klar",
		PackageID:    "org.mozilla.klar",
		ExcludedABIs: []ABI{ABIX86, ABIX8664},
	},
	{
		Variant:      VariantFirefoxFocus,
		Title:        "Firefox Focus",
		PackageID:    "org.mozilla.focus",
		ExcludedABIs: []ABI{ABIX86, ABIX8664},
	},
	{
		Variant:      VariantFirefoxLite,
		Title:        "Firefox Lite",
		PackageID:    "org.mozilla.rocket",
		ExcludedABIs: []ABI{ABIX86, ABIX8664},
		Warning:      "Firefox Lite is only offered in selected countries.",
	},
	{
		Variant:      VariantFenix,
		Title:        "Firefox Preview (Fenix)",
		PackageID:    "org.mozilla.fenix",
		ExcludedABIs: []ABI{ABIX8664},
	},
}

var catalogIndex = func() map[Variant]int {
	idx := make(map[Variant]int, len(catalog))
	for i, info := range catalog {
		idx[info.Variant] = i
	}
	return idx
}()

// AllVariants returns every variant in catalog order.
func AllVariants() []Variant {
	variants := make([]Variant, 0, len(catalog))
	for _, info := range catalog {
		variants = append(variants, info.Variant)
	}
	return variants
}

// Lookup returns the catalog entry for v.
func Lookup(v Variant) (VariantInfo, bool) {
	i, ok := catalogIndex[v]
	if !ok {
		return VariantInfo{}, false
	}
	return catalog[i], true
}

// Info returns the catalog entry for v, or a zero VariantInfo for unknown variants.
func (v Variant) Info() VariantInfo {
	info, _ := Lookup(v)
	return info
}

// Validate checks if the Variant is part of the catalog.
func (v Variant) Validate() error {
	if _, ok := catalogIndex[v]; ok {
		return nil
	}
	if v == "" {
		return fmt.Errorf("variant is required")
	}
	return fmt.Errorf("invalid variant '%s' (must be one of %s)", v, strings.Join(variantNames(), ", "))
}

// String returns the string representation of the Variant.
func (v Variant) String() string {
	return string(v)
}

// PackageID returns the Android package identifier of the variant.
func (v Variant) PackageID() string {
	return v.Info().PackageID
}

// Family returns the URL template family of the variant.
func (v Variant) Family() Family {
	return v.Info().Family
}

// Supports reports whether the variant is built for abi.
func (v Variant) Supports(abi ABI) bool {
	info, ok := Lookup(v)
	if !ok {
		return false
	}
	for _, excluded := range info.ExcludedABIs {
		if excluded == abi {
			return false
		}
	}
	return true
}

// ParseVariant parses a string into a Variant. Dashes are accepted in place
// of underscores.
func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if err := v.Validate(); err != nil {
		return "", err
	}
	return v, nil
}

func variantNames() []string {
	names := make([]string, 0, len(catalog))
	for _, info := range catalog {
		names = append(names, string(info.Variant))
	}
	return names
}
