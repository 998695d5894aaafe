package device

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/adamancini/ffupdate/internal/types"
)

// versionNamePattern matches the versionName line of `dumpsys package`.
var versionNamePattern = regexp.MustCompile(`^\s*versionName=(\S.*?)\s*$`)

// ADBPackageManager queries a device's package manager through adb.
type ADBPackageManager struct {
	ADBPath string // adb binary, "adb" when empty
	Serial  string // optional device serial
	runner  CommandRunner
}

// NewADBPackageManager creates a package manager backed by the adb binary.
func NewADBPackageManager(adbPath, serial string) *ADBPackageManager {
	return NewADBPackageManagerWithRunner(adbPath, serial, &ExecRunner{})
}

// NewADBPackageManagerWithRunner creates a package manager with a custom runner (for testing).
func NewADBPackageManagerWithRunner(adbPath, serial string, runner CommandRunner) *ADBPackageManager {
	if adbPath == "" {
		adbPath = "adb"
	}
	return &ADBPackageManager{
		ADBPath: adbPath,
		Serial:  serial,
		runner:  runner,
	}
}

// shell runs `adb [-s serial] shell args...`.
func (m *ADBPackageManager) shell(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+3)
	if m.Serial != "" {
		full = append(full, "-s", m.Serial)
	}
	full = append(full, "shell")
	full = append(full, args...)

	output, err := m.runner.Run(ctx, m.ADBPath, full...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: adb %s: %s", ErrNoDevice, strings.Join(full, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("%w: adb %s: %v", ErrNoDevice, strings.Join(full, " "), err)
	}
	return output, nil
}

// Lookup implements PackageManager using `dumpsys package`.
func (m *ADBPackageManager) Lookup(ctx context.Context, packageID string) (string, error) {
	output, err := m.shell(ctx, "dumpsys", "package", packageID)
	if err != nil {
		return "", err
	}

	version, ok := parseVersionName(output)
	if !ok {
		return "", fmt.Errorf("%s: %w", packageID, ErrPackageNotFound)
	}
	return version, nil
}

// parseVersionName extracts the first versionName from dumpsys output.
// Format:
//
//	Packages:
//	  Package [org.mozilla.firefox] (5d3a1c2):
//	    versionCode=2015693729 minSdk=16 targetSdk=28
//	    versionName=68.7.0
func parseVersionName(output []byte) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if matches := versionNamePattern.FindStringSubmatch(scanner.Text()); len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", false
}

// DetectABI returns the device ABI best suited for downloads: the first
// entry of ro.product.cpu.abilist that ffupdate knows, falling back to
// ro.product.cpu.abi on old devices.
func (m *ADBPackageManager) DetectABI(ctx context.Context) (types.ABI, error) {
	for _, prop := range []string{"ro.product.cpu.abilist", "ro.product.cpu.abi"} {
		output, err := m.shell(ctx, "getprop", prop)
		if err != nil {
			return "", err
		}
		if abi, ok := parseABIList(string(output)); ok {
			return abi, nil
		}
	}
	return "", fmt.Errorf("device reports no supported abi")
}

// parseABIList returns the first known ABI of a comma separated list.
func parseABIList(list string) (types.ABI, bool) {
	for _, entry := range strings.Split(strings.TrimSpace(list), ",") {
		if abi, err := types.ParseABI(entry); err == nil {
			return abi, true
		}
	}
	return "", false
}
