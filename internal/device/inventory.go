package device

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adamancini/ffupdate/internal/config"
	"github.com/adamancini/ffupdate/internal/types"
)

// Inventory is a snapshot of a device's installed packages. It is the file
// format written by `ffupdate export` and read by InventoryPackageManager.
type Inventory struct {
	Version  int               `yaml:"version" toml:"version" json:"version"`
	ABI      types.ABI         `yaml:"abi,omitempty" toml:"abi,omitempty" json:"abi,omitempty"`
	Packages map[string]string `yaml:"packages" toml:"packages" json:"packages"` // package id -> versionName
}

// InventoryPackageManager answers lookups from an inventory file. The file
// is re-read on every lookup so edits are picked up immediately.
type InventoryPackageManager struct {
	Path string
}

// Lookup implements PackageManager using the inventory file.
func (m *InventoryPackageManager) Lookup(ctx context.Context, packageID string) (string, error) {
	inv, err := ReadInventory(m.Path)
	if err != nil {
		return "", err
	}
	version, ok := inv.Packages[packageID]
	if !ok || version == "" {
		return "", fmt.Errorf("%s: %w", packageID, ErrPackageNotFound)
	}
	return version, nil
}

// DetectABI returns the ABI recorded in the inventory.
func (m *InventoryPackageManager) DetectABI(ctx context.Context) (types.ABI, error) {
	inv, err := ReadInventory(m.Path)
	if err != nil {
		return "", err
	}
	if inv.ABI == "" {
		return "", fmt.Errorf("inventory %s records no abi", m.Path)
	}
	if err := inv.ABI.Validate(); err != nil {
		return "", fmt.Errorf("inventory %s: %w", m.Path, err)
	}
	return inv.ABI, nil
}

// ReadInventory parses an inventory file in YAML, TOML or JSON.
func ReadInventory(path string) (*Inventory, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory: %w", err)
	}

	format := config.DetectFormat(path, content)
	if format == config.FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	inv := &Inventory{}
	if err := config.Unmarshal(content, format, inv); err != nil {
		return nil, fmt.Errorf("failed to parse inventory %s: %w", path, err)
	}
	if inv.Packages == nil {
		inv.Packages = make(map[string]string)
	}
	return inv, nil
}

// WriteInventory writes inv to path, choosing the format from the extension
// (YAML when there is none).
func WriteInventory(path string, inv *Inventory) error {
	format := config.DetectFormat(path, nil)
	if format == config.FormatUnknown {
		format = config.FormatYAML
	}

	data, err := config.Marshal(inv, format)
	if err != nil {
		return fmt.Errorf("failed to encode inventory: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create inventory directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write inventory: %w", err)
	}
	return nil
}
