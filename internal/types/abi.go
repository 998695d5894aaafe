// Package types provides the closed catalogs ffupdate works with: browser
// variants and the CPU architectures (ABIs) Mozilla builds for.
//
// SYNC REQUIREMENT: the ABI tokens below must match the folder and file
// names published on ftp.mozilla.org. Changing them breaks URL resolution.
package types

import (
	"fmt"
	"strings"
)

// ABI represents a CPU instruction-set category on the device.
type ABI string

const (
	// ABIAarch64 is 64-bit ARM (arm64-v8a).
	ABIAarch64 ABI = "aarch64"
	// ABIArm is 32-bit ARM (armeabi-v7a).
	ABIArm ABI = "arm"
	// ABIX86 is 32-bit x86.
	ABIX86 ABI = "x86"
	// ABIX8664 is 64-bit x86.
	ABIX8664 ABI = "x86_64"
)

// abiTokens maps each ABI to the folder and file-suffix tokens used in
// Mozilla's download paths. The two are not always equal.
var abiTokens = map[ABI]struct {
	folder string
	suffix string
}{
	ABIAarch64: {folder: "aarch64", suffix: "aarch64"},
	ABIArm:     {folder: "api-16", suffix: "arm"},
	ABIX86:     {folder: "x86", suffix: "i386"},
	ABIX8664:   {folder: "x86_64", suffix: "x86_64"},
}

// AllABIs returns all known ABIs, most preferred first.
func AllABIs() []ABI {
	return []ABI{ABIAarch64, ABIArm, ABIX86, ABIX8664}
}

// Validate checks if the ABI is a known value.
func (a ABI) Validate() error {
	if _, ok := abiTokens[a]; ok {
		return nil
	}
	if a == "" {
		return fmt.Errorf("abi is required")
	}
	return fmt.Errorf("invalid abi '%s' (must be aarch64, arm, x86, or x86_64)", a)
}

// String returns the string representation of the ABI.
func (a ABI) String() string {
	return string(a)
}

// FolderName returns the path segment used in the download folder,
// e.g. "api-16" for arm.
func (a ABI) FolderName() (string, bool) {
	t, ok := abiTokens[a]
	return t.folder, ok
}

// FileSuffix returns the token used in the APK file name, e.g. "i386" for x86.
func (a ABI) FileSuffix() (string, bool) {
	t, ok := abiTokens[a]
	return t.suffix, ok
}

// ParseABI parses a string into an ABI. Android ABI names reported by the
// device (arm64-v8a, armeabi-v7a, ...) are accepted as aliases.
func ParseABI(s string) (ABI, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case "arm64-v8a", "arm64":
		return ABIAarch64, nil
	case "armeabi-v7a", "armeabi":
		return ABIArm, nil
	case "x86-64", "amd64":
		return ABIX8664, nil
	case "i386", "i686":
		return ABIX86, nil
	}
	abi := ABI(normalized)
	if err := abi.Validate(); err != nil {
		return "", err
	}
	return abi, nil
}
