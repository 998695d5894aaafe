package device

import (
	"context"
	"fmt"
	"strings"
)

// Installer installs APKs on a device.
type Installer interface {
	Install(ctx context.Context, apkPath string) (InstallResult, error)
}

// InstallResult records one install attempt.
type InstallResult struct {
	Path    string `json:"path" yaml:"path"`
	Command string `json:"command" yaml:"command"`
	Success bool   `json:"success" yaml:"success"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Install runs `adb install -r <apk>`, replacing the installed app and
// keeping its data.
func (m *ADBPackageManager) Install(ctx context.Context, apkPath string) (InstallResult, error) {
	args := []string{"install", "-r", apkPath}
	if m.Serial != "" {
		args = append([]string{"-s", m.Serial}, args...)
	}

	// Build command string before executing
	result := InstallResult{
		Path:    apkPath,
		Command: m.ADBPath + " " + strings.Join(args, " "),
	}

	output, err := m.runner.Run(ctx, m.ADBPath, args...)
	if err != nil {
		result.Error = fmt.Sprintf("failed to install %s: %v", apkPath, err)
		return result, fmt.Errorf("failed to install %s: %w", apkPath, err)
	}

	// Older adb versions exit 0 and report the failure on stdout
	if reason, failed := installFailure(output); failed {
		result.Error = fmt.Sprintf("failed to install %s: %s", apkPath, reason)
		return result, fmt.Errorf("failed to install %s: %s", apkPath, reason)
	}

	result.Success = true
	return result, nil
}

// installFailure extracts the reason from an "adb install" Failure line.
func installFailure(output []byte) (string, bool) {
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Failure") {
			reason := strings.TrimSpace(strings.TrimPrefix(line, "Failure"))
			reason = strings.Trim(reason, "[]")
			if reason == "" {
				reason = "unknown error"
			}
			return reason, true
		}
	}
	return "", false
}
