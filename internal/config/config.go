// Package config handles ffupdate configuration parsing and location resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adamancini/ffupdate/internal/types"
)

// ErrNotFound is returned by FindConfig when no configuration file exists
// in any of the standard locations.
var ErrNotFound = errors.New("no configuration file found")

const (
	// DefaultMetadataURL lists the current Fennec release, beta and nightly versions.
	DefaultMetadataURL = "https://product-details.mozilla.org/1.0/mobile_versions.json"

	// DefaultCIIndexURL is the task index of Mozilla's firefox-ci cluster.
	DefaultCIIndexURL = "https://firefox-ci-tc.services.mozilla.com/api/index/v1/task"

	DefaultProbeConnectTimeout = time.Second
	DefaultProbeReadTimeout    = time.Second
	DefaultDownloadTimeout     = 30 * time.Minute
)

// Config is the parsed configuration file. Durations are kept as strings so
// that every supported file format decodes them the same way.
type Config struct {
	ABI         string         `yaml:"abi,omitempty" toml:"abi,omitempty" json:"abi,omitempty"`
	ADB         ADBConfig      `yaml:"adb,omitempty" toml:"adb,omitempty" json:"adb,omitempty"`
	Inventory   string         `yaml:"inventory,omitempty" toml:"inventory,omitempty" json:"inventory,omitempty"`
	MetadataURL string         `yaml:"metadata_url,omitempty" toml:"metadata_url,omitempty" json:"metadata_url,omitempty"`
	DownloadDir string         `yaml:"download_dir,omitempty" toml:"download_dir,omitempty" json:"download_dir,omitempty"`
	Probe       ProbeConfig    `yaml:"probe,omitempty" toml:"probe,omitempty" json:"probe,omitempty"`
	Download    DownloadConfig `yaml:"download,omitempty" toml:"download,omitempty" json:"download,omitempty"`

	// Exclude lists variants left out of update checks.
	Exclude   []string        `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
	MozillaCI MozillaCIConfig `yaml:"mozilla_ci,omitempty" toml:"mozilla_ci,omitempty" json:"mozilla_ci,omitempty"`
}

// ADBConfig configures how the device is reached.
type ADBConfig struct {
	// Path is the adb binary, "adb" on PATH by default.
	Path string `yaml:"path,omitempty" toml:"path,omitempty" json:"path,omitempty"`
	// Serial selects the device when several are attached.
	Serial string `yaml:"serial,omitempty" toml:"serial,omitempty" json:"serial,omitempty"`
}

// ProbeConfig configures the download URL existence check.
type ProbeConfig struct {
	ConnectTimeout string `yaml:"connect_timeout,omitempty" toml:"connect_timeout,omitempty" json:"connect_timeout,omitempty"`
	ReadTimeout    string `yaml:"read_timeout,omitempty" toml:"read_timeout,omitempty" json:"read_timeout,omitempty"`
}

// DownloadConfig configures APK downloads.
type DownloadConfig struct {
	Timeout string `yaml:"timeout,omitempty" toml:"timeout,omitempty" json:"timeout,omitempty"`

	// Keep is the number of APKs kept per channel and ABI after a
	// download. Zero keeps everything.
	Keep int `yaml:"keep,omitempty" toml:"keep,omitempty" json:"keep,omitempty"`
}

// MozillaCIConfig configures version lookups on Mozilla's CI, where the
// variants that are not on ftp.mozilla.org are published.
type MozillaCIConfig struct {
	IndexURL string `yaml:"index_url,omitempty" toml:"index_url,omitempty" json:"index_url,omitempty"`
	Disabled bool   `yaml:"disabled,omitempty" toml:"disabled,omitempty" json:"disabled,omitempty"`
	// Tasks overrides the built-in index task and artifact per variant.
	// Both may contain an {abi} placeholder.
	Tasks map[string]CITask `yaml:"tasks,omitempty" toml:"tasks,omitempty" json:"tasks,omitempty"`
}

// CITask names an index task and the APK artifact it publishes.
type CITask struct {
	Task     string `yaml:"task" toml:"task" json:"task"`
	Artifact string `yaml:"artifact" toml:"artifact" json:"artifact"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ADB:         ADBConfig{Path: "adb"},
		MetadataURL: DefaultMetadataURL,
		DownloadDir: ".",
		MozillaCI:   MozillaCIConfig{IndexURL: DefaultCIIndexURL},
	}
}

// ProbeConnectTimeout returns the configured connect timeout or the default.
func (c *Config) ProbeConnectTimeout() time.Duration {
	return durationOr(c.Probe.ConnectTimeout, DefaultProbeConnectTimeout)
}

// ProbeReadTimeout returns the configured read timeout or the default.
func (c *Config) ProbeReadTimeout() time.Duration {
	return durationOr(c.Probe.ReadTimeout, DefaultProbeReadTimeout)
}

// DownloadTimeout returns the configured download timeout or the default.
func (c *Config) DownloadTimeout() time.Duration {
	return durationOr(c.Download.Timeout, DefaultDownloadTimeout)
}

func durationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// applyDefaults fills empty fields with the values from Default.
func (c *Config) applyDefaults() {
	def := Default()
	if c.ADB.Path == "" {
		c.ADB.Path = def.ADB.Path
	}
	if c.MetadataURL == "" {
		c.MetadataURL = def.MetadataURL
	}
	if c.DownloadDir == "" {
		c.DownloadDir = def.DownloadDir
	}
	if c.MozillaCI.IndexURL == "" {
		c.MozillaCI.IndexURL = def.MozillaCI.IndexURL
	}
}

// Excluded returns the variants listed under exclude. Entries that do not
// name a variant are skipped; Validate reports them.
func (c *Config) Excluded() map[types.Variant]bool {
	excluded := make(map[types.Variant]bool, len(c.Exclude))
	for _, name := range c.Exclude {
		if v, err := types.ParseVariant(name); err == nil {
			excluded[v] = true
		}
	}
	return excluded
}

// FindConfig searches for a configuration file in the standard locations.
// Returns ErrNotFound when nothing exists and no explicit path was given.
func FindConfig(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv("FFUPDATE_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	searchPaths := []string{
		filepath.Join(xdgConfig, "ffupdate"),
		filepath.Join(home, ".ffupdate"),
		home,
	}

	fileNames := []string{
		"config.yaml",
		"config.yml",
		"config.toml",
		"config.json",
		".ffupdate.yaml",
		".ffupdate.yml",
		".ffupdate.toml",
		".ffupdate.json",
	}

	for _, dir := range searchPaths {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", ErrNotFound
}

// Load reads, parses and validates a configuration file.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(path, content)
}

// Parse decodes and validates content as the configuration file name. The
// format follows the extension of name, or is sniffed from content.
func Parse(name string, content []byte) (*Config, error) {
	format := DetectFormat(name, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", name)
	}

	cfg := &Config{}
	if err := Unmarshal(expandEnvVars(content), format, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the file FindConfig locates, falling back to Default
// when none exists.
func LoadOrDefault(explicitPath string) (*Config, string, error) {
	path, err := FindConfig(explicitPath)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
