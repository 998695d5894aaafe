package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/config"
	"github.com/adamancini/ffupdate/internal/interactive"
	"github.com/adamancini/ffupdate/internal/templates"
)

// initOptions are the flags of `ffupdate init`.
type initOptions struct {
	template string
	path     string
	force    bool
}

func newInitCmd() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file from a template",
		Long: `Init writes a starter config file. The template is one of the built-in
ones or the URL of a config file; it is validated before anything is written.

Built-in templates:
  adb        device attached over adb
  inventory  offline checks against an exported inventory
  full       every option with its default

Without --template, init asks which built-in template to use.

Examples:
  ffupdate init
  ffupdate init --template inventory --path ./ffupdate.yaml
  ffupdate init --template https://example.com/ffupdate.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return runInit(cmd.Context(), p, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Template name or URL")
	cmd.Flags().StringVar(&opts.path, "path", "", "Where to write the config file (default $XDG_CONFIG_HOME/ffupdate/config.yaml)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing config file")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var completions []string
		for _, name := range templates.List() {
			completions = append(completions, name+"\t"+templates.GetDescription(name))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runInit writes the chosen template to opts.path. Questions go through p.
func runInit(ctx context.Context, p *interactive.Prompter, out io.Writer, opts initOptions) error {
	path := opts.path
	if path == "" {
		path = defaultConfigPath()
	}
	path = expandHomePath(path)

	if _, err := os.Stat(path); err == nil && !opts.force {
		if !p.Confirm("%s already exists. Overwrite?", path) {
			_, _ = fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	name := opts.template
	if name == "" {
		names := templates.List()
		options := make([]string, 0, len(names))
		def := 0
		for i, n := range names {
			options = append(options, fmt.Sprintf("%-10s %s", n, templates.GetDescription(n)))
			if n == templates.DefaultTemplate {
				def = i
			}
		}
		i, ok := p.Choose("Select a config template:", options, def)
		if !ok {
			return fmt.Errorf("no template selected")
		}
		name = names[i]
	}

	content, err := loadTemplate(ctx, name)
	if err != nil {
		return err
	}

	// Validate against the destination so the file loads once written.
	if _, err := config.Parse(path, content); err != nil {
		return fmt.Errorf("invalid template %s: %w", name, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Created %s from the %s template.\n", path, name)
	_, _ = fmt.Fprintln(out, "Run 'ffupdate status' to check the device for updates.")
	return nil
}

// loadTemplate returns a built-in template, or fetches name when it is an
// http(s) URL.
func loadTemplate(ctx context.Context, name string) ([]byte, error) {
	if !strings.HasPrefix(name, "http://") && !strings.HasPrefix(name, "https://") {
		tmpl, err := templates.Get(name)
		if err != nil {
			return nil, err
		}
		return tmpl.Content, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch template: %s returned status %d", name, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}

// defaultConfigPath is the first location FindConfig searches.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(dir, "ffupdate", "config.yaml")
}

// expandHomePath expands a leading ~/ to the user's home directory.
func expandHomePath(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
