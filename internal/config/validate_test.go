package config

import (
	"testing"

	"github.com/adamancini/ffupdate/internal/types"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"android abi alias", Config{ABI: "armeabi-v7a"}, false},
		{"unknown abi", Config{ABI: "sparc"}, true},
		{"https metadata", Config{MetadataURL: "https://product-details.mozilla.org/1.0/mobile_versions.json"}, false},
		{"ftp metadata", Config{MetadataURL: "ftp://example.com/versions.json"}, true},
		{"metadata without host", Config{MetadataURL: "https:///versions.json"}, true},
		{"valid timeouts", Config{Probe: ProbeConfig{ConnectTimeout: "1s", ReadTimeout: "1500ms"}}, false},
		{"negative timeout", Config{Probe: ProbeConfig{ConnectTimeout: "-1s"}}, true},
		{"garbage timeout", Config{Download: DownloadConfig{Timeout: "forever"}}, true},
		{"keep two apks", Config{Download: DownloadConfig{Keep: 2}}, false},
		{"negative keep", Config{Download: DownloadConfig{Keep: -1}}, true},
		{"exclude known variants", Config{Exclude: []string{"fennec_beta", "firefox-focus"}}, false},
		{"exclude unknown variant", Config{Exclude: []string{"fennec_esr"}}, true},
		{"ci index url", Config{MozillaCI: MozillaCIConfig{IndexURL: "file:///index"}}, true},
		{"ci task override", Config{MozillaCI: MozillaCIConfig{Tasks: map[string]CITask{
			"fenix": {Task: "mobile.v2.fenix.nightly.latest.{abi}", Artifact: "public/build/{abi}/target.apk"},
		}}}, false},
		{"ci task without artifact", Config{MozillaCI: MozillaCIConfig{Tasks: map[string]CITask{
			"fenix": {Task: "mobile.v2.fenix.nightly.latest.{abi}"},
		}}}, true},
		{"ci task for unknown variant", Config{MozillaCI: MozillaCIConfig{Tasks: map[string]CITask{
			"fennec_esr": {Task: "t", Artifact: "a"},
		}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := Validate(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidationError{Field: "abi", Message: "abi is required"}
	if err.Error() != "abi: abi is required" {
		t.Errorf("Error() = %s", err.Error())
	}
}

func TestExcluded(t *testing.T) {
	cfg := &Config{Exclude: []string{"fennec_beta", "Firefox-Focus", "nonsense"}}
	excluded := cfg.Excluded()

	if len(excluded) != 2 {
		t.Fatalf("Excluded() = %v, want 2 variants", excluded)
	}
	if !excluded[types.VariantFennecBeta] || !excluded[types.VariantFirefoxFocus] {
		t.Errorf("Excluded() = %v", excluded)
	}
}
