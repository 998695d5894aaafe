package interactive

import (
	"bytes"
	"strings"
	"testing"

	"github.com/adamancini/ffupdate/internal/types"
	"github.com/adamancini/ffupdate/internal/update"
)

func TestPrompterYesResponse(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader("y\n"), &bytes.Buffer{})

	if resp := p.prompt("Test prompt?"); resp != ResponseYes {
		t.Errorf("expected ResponseYes, got %v", resp)
	}
}

func TestPrompterNoResponse(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader("no\n"), &bytes.Buffer{})

	if resp := p.prompt("Test prompt?"); resp != ResponseNo {
		t.Errorf("expected ResponseNo, got %v", resp)
	}
}

func TestPrompterAllResponse(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader("a\n"), &bytes.Buffer{})

	if resp := p.prompt("First prompt?"); resp != ResponseYes {
		t.Errorf("expected ResponseYes after 'a', got %v", resp)
	}
	// Subsequent prompts should auto-approve
	if resp := p.prompt("Second prompt?"); resp != ResponseYes {
		t.Errorf("expected ResponseYes (auto-approve), got %v", resp)
	}
}

func TestPrompterQuitOnEOF(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader(""), &bytes.Buffer{})

	if resp := p.prompt("Test prompt?"); resp != ResponseQuit {
		t.Errorf("expected ResponseQuit on EOF, got %v", resp)
	}
}

func TestPrompterInvalidResponse(t *testing.T) {
	output := &bytes.Buffer{}
	p := NewPrompterWithIO(strings.NewReader("maybe\n"), output)

	if resp := p.prompt("Test prompt?"); resp != ResponseNo {
		t.Errorf("expected ResponseNo for invalid input, got %v", resp)
	}
	if !strings.Contains(output.String(), "Invalid response") {
		t.Errorf("expected invalid response message, got %q", output.String())
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		p := NewPrompterWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
		if got := p.Confirm("Continue?"); got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSelectVariant(t *testing.T) {
	variants := []types.Variant{types.VariantFennecNightly, types.VariantFenix}

	tests := []struct {
		name   string
		input  string
		want   types.Variant
		wantOK bool
	}{
		{"first", "1\n", types.VariantFennecNightly, true},
		{"second", " 2 \n", types.VariantFenix, true},
		{"zero", "0\n", "", false},
		{"too large", "3\n", "", false},
		{"not a number", "fenix\n", "", false},
		{"eof", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			p := NewPrompterWithIO(strings.NewReader(tt.input), output)

			got, ok := p.SelectVariant("Download a new app:", variants)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("SelectVariant() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
			if !strings.Contains(output.String(), "2) Firefox Preview (Fenix) (fenix)") {
				t.Errorf("menu not printed: %q", output.String())
			}
		})
	}
}

func TestSelectVariantEmpty(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader("1\n"), &bytes.Buffer{})
	if _, ok := p.SelectVariant("Download a new app:", nil); ok {
		t.Error("SelectVariant() should fail without options")
	}
}

func TestChooseDefault(t *testing.T) {
	options := []string{"adb", "full", "inventory"}

	tests := []struct {
		name   string
		input  string
		def    int
		want   int
		wantOK bool
	}{
		{"empty picks default", "\n", 0, 0, true},
		{"explicit choice", "3\n", 0, 2, true},
		{"empty without default", "\n", -1, -1, false},
		{"default out of range", "\n", 5, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompterWithIO(strings.NewReader(tt.input), &bytes.Buffer{})
			got, ok := p.Choose("Select a config template:", options, tt.def)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Choose() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSelectOutdated(t *testing.T) {
	statuses := []update.AppStatus{
		{Variant: types.VariantFennecRelease, Title: "Firefox Release", Installed: "68.6.0", Available: "68.7.0", Outdated: true, Tracked: true},
		{Variant: types.VariantFennecBeta, Title: "Firefox Beta", Installed: "68.8b2", Available: "68.8b2", Tracked: true},
		{Variant: types.VariantFennecNightly, Title: "Firefox Nightly", Installed: "68.4a1", Available: "68.5a1", Outdated: true, Tracked: true},
	}

	t.Run("approve one skip one", func(t *testing.T) {
		output := &bytes.Buffer{}
		p := NewPrompterWithIO(strings.NewReader("y\nn\n"), output)

		selected, ok := p.SelectOutdated(statuses)
		if !ok {
			t.Fatal("SelectOutdated() should not abort")
		}
		if len(selected) != 1 || selected[0] != types.VariantFennecRelease {
			t.Errorf("selected = %v", selected)
		}
		if !strings.Contains(output.String(), "Skipped: 1") {
			t.Errorf("summary missing: %q", output.String())
		}
	})

	t.Run("approve all", func(t *testing.T) {
		p := NewPrompterWithIO(strings.NewReader("a\n"), &bytes.Buffer{})

		selected, ok := p.SelectOutdated(statuses)
		if !ok || len(selected) != 2 {
			t.Errorf("SelectOutdated() = %v, %v", selected, ok)
		}
	})

	t.Run("quit", func(t *testing.T) {
		p := NewPrompterWithIO(strings.NewReader("q\n"), &bytes.Buffer{})

		if _, ok := p.SelectOutdated(statuses); ok {
			t.Error("SelectOutdated() should abort on quit")
		}
	})
}
