package update

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// versionRegex accepts Mozilla mobile version names: "68.7.0", "68.7",
// "68.5a1", "68.0b3" and the "2.1.13(19177)" build suffix used by Firefox Lite.
var versionRegex = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:([ab])(\d+))?(?:\s*\((\d+)\))?$`)

// Version represents a Mozilla-style version name.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string // "a" (nightly) or "b" (beta), empty for release
	PreNumber  int
	Build      int
}

// ParseVersion parses a Mozilla version name.
func ParseVersion(s string) (*Version, error) {
	matches := versionRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return nil, fmt.Errorf("invalid version format: %s", s)
	}

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s)
		return n
	}

	return &Version{
		Major:      atoi(matches[1]),
		Minor:      atoi(matches[2]),
		Patch:      atoi(matches[3]),
		Prerelease: matches[4],
		PreNumber:  atoi(matches[5]),
		Build:      atoi(matches[6]),
	}, nil
}

// String returns the string representation
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d", v.Major, v.Minor)
	if v.Patch != 0 {
		s += fmt.Sprintf(".%d", v.Patch)
	}
	if v.Prerelease != "" {
		s += fmt.Sprintf("%s%d", v.Prerelease, v.PreNumber)
	}
	if v.Build != 0 {
		s += fmt.Sprintf("(%d)", v.Build)
	}
	return s
}

// Compare compares two versions
// Returns:
//   - 1 if v > other
//   - 0 if v == other
//   - -1 if v < other
func (v *Version) Compare(other *Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if c := compareInt(v.Patch, other.Patch); c != 0 {
		return c
	}

	// release > beta > alpha; "" sorts after both letters
	if v.Prerelease != other.Prerelease {
		switch {
		case v.Prerelease == "":
			return 1
		case other.Prerelease == "":
			return -1
		case v.Prerelease > other.Prerelease:
			return 1
		default:
			return -1
		}
	}
	if c := compareInt(v.PreNumber, other.PreNumber); c != 0 {
		return c
	}

	return compareInt(v.Build, other.Build)
}

func compareInt(a, b int) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	}
	return 0
}

// IsGreaterThan returns true if v > other
func (v *Version) IsGreaterThan(other *Version) bool {
	return v.Compare(other) > 0
}

// IsOutdated reports whether an installed version name is older than the
// available one. Version names that do not parse are compared for
// inequality, so any difference counts as outdated.
func IsOutdated(installed, available string) bool {
	if installed == "" || available == "" {
		return false
	}
	iv, err := ParseVersion(installed)
	if err != nil {
		return installed != available
	}
	av, err := ParseVersion(available)
	if err != nil {
		return installed != available
	}
	return av.IsGreaterThan(iv)
}

// ESRSegment returns the leading numeric token of a version name, split
// on '.', as used in nightly download folders ("68.5a1" -> "68").
func ESRSegment(version string) string {
	return strings.SplitN(version, ".", 2)[0]
}
