package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/adamancini/ffupdate/internal/types"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for valid values. All problems are
// reported together.
func Validate(c *Config) error {
	var errors []string

	if c.ABI != "" {
		if _, err := types.ParseABI(c.ABI); err != nil {
			errors = append(errors, ValidationError{Field: "abi", Message: err.Error()}.Error())
		}
	}

	if c.MetadataURL != "" {
		if err := validateURL(c.MetadataURL); err != nil {
			errors = append(errors, ValidationError{Field: "metadata_url", Message: err.Error()}.Error())
		}
	}

	durations := map[string]string{
		"probe.connect_timeout": c.Probe.ConnectTimeout,
		"probe.read_timeout":    c.Probe.ReadTimeout,
		"download.timeout":      c.Download.Timeout,
	}
	for _, field := range []string{"probe.connect_timeout", "probe.read_timeout", "download.timeout"} {
		if err := validateDuration(durations[field]); err != nil {
			errors = append(errors, ValidationError{Field: field, Message: err.Error()}.Error())
		}
	}

	if c.Download.Keep < 0 {
		errors = append(errors, ValidationError{Field: "download.keep", Message: "must be non-negative"}.Error())
	}

	for _, name := range c.Exclude {
		if _, err := types.ParseVariant(name); err != nil {
			errors = append(errors, ValidationError{Field: "exclude", Message: err.Error()}.Error())
		}
	}

	if c.MozillaCI.IndexURL != "" {
		if err := validateURL(c.MozillaCI.IndexURL); err != nil {
			errors = append(errors, ValidationError{Field: "mozilla_ci.index_url", Message: err.Error()}.Error())
		}
	}
	for _, name := range sortedKeys(c.MozillaCI.Tasks) {
		field := "mozilla_ci.tasks." + name
		if _, err := types.ParseVariant(name); err != nil {
			errors = append(errors, ValidationError{Field: field, Message: err.Error()}.Error())
			continue
		}
		task := c.MozillaCI.Tasks[name]
		if task.Task == "" || task.Artifact == "" {
			errors = append(errors, ValidationError{Field: field, Message: "task and artifact are required"}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func sortedKeys(m map[string]CITask) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url has no host")
	}
	return nil
}

func validateDuration(s string) error {
	if s == "" {
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration '%s'", s)
	}
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got '%s'", s)
	}
	return nil
}
