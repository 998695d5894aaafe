package templates

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestList(t *testing.T) {
	names := List()

	expected := []string{"adb", "full", "inventory"}
	if len(names) != len(expected) {
		t.Fatalf("List() = %v, want %v", names, expected)
	}
	for i, exp := range expected {
		if names[i] != exp {
			t.Errorf("List()[%d] = %s, want %s", i, names[i], exp)
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"adb", false},
		{"inventory", false},
		{"full", false},
		{"nonexistent", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Get(tt.name)

			if tt.wantErr {
				if err == nil {
					t.Errorf("Get(%s) expected error, got nil", tt.name)
				} else if !strings.Contains(err.Error(), "available: adb, full, inventory") {
					t.Errorf("error should list templates: %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Get(%s) unexpected error: %v", tt.name, err)
			}
			if tmpl.Name != tt.name {
				t.Errorf("Name = %s, want %s", tmpl.Name, tt.name)
			}
			if tmpl.Description == "" || tmpl.Description == "Custom template" {
				t.Errorf("missing description for %s", tt.name)
			}

			// Every template must be valid YAML
			var parsed map[string]interface{}
			if err := yaml.Unmarshal(tmpl.Content, &parsed); err != nil {
				t.Errorf("template %s is not valid YAML: %v", tt.name, err)
			}
		})
	}
}

func TestGetDescription(t *testing.T) {
	if got := GetDescription("full"); got != "Every option with its default" {
		t.Errorf("GetDescription(full) = %s", got)
	}
	if got := GetDescription("mine"); got != "Custom template" {
		t.Errorf("GetDescription(mine) = %s", got)
	}
}
