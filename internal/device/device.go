// Package device reads the installed-browser state of an Android device.
package device

import (
	"context"
	"errors"
	"os/exec"

	"github.com/adamancini/ffupdate/internal/types"
)

// ErrPackageNotFound is returned by a PackageManager when the package is not
// installed on the device.
var ErrPackageNotFound = errors.New("package not found")

// ErrNoDevice is returned when no device can be reached.
var ErrNoDevice = errors.New("no device available")

// PackageManager looks up installed package versions.
type PackageManager interface {
	// Lookup returns the versionName of packageID, or ErrPackageNotFound.
	Lookup(ctx context.Context, packageID string) (string, error)
}

// ABIDetector reports the primary ABI of the device.
type ABIDetector interface {
	DetectABI(ctx context.Context) (types.ABI, error)
}

// Device is a package manager that can also report its ABI.
type Device interface {
	PackageManager
	ABIDetector
}

// CommandRunner is an interface for running external commands.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner uses os/exec to run commands.
type ExecRunner struct{}

// Run executes name with args and returns its standard output.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.Output()
}
