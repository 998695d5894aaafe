package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/interactive"
	"github.com/adamancini/ffupdate/internal/types"
	"github.com/adamancini/ffupdate/internal/update"
)

// errAborted is returned when the user declines a prompt.
var errAborted = errors.New("aborted")

func newDownloadCmd() *cobra.Command {
	var (
		dest     string
		outdated bool
		install  bool
		yes      bool
	)

	cmd := &cobra.Command{
		Use:   "download [variant]",
		Short: "Download the APK of a variant",
		Long: `Download resolves the APK of a variant for the device ABI and saves it
to the download directory.

Without a variant, download asks which missing variant to fetch. With
--outdated it fetches every installed variant that has an update, asking
for each one when run on a terminal. With --install the APK is installed on
the device with adb once downloaded.

Examples:
  ffupdate download fennec_beta --dest ~/apks
  ffupdate download --outdated --install
  ffupdate download`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeVariants,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(progressPrinter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			var prompter *interactive.Prompter
			if interactive.IsTerminal() {
				prompter = interactive.NewPrompterWithIO(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			d := &downloadRun{svc: svc, prompter: prompter, out: cmd.OutOrStdout(), dest: dest, install: install, yes: yes}
			switch {
			case outdated:
				return d.outdated(cmd.Context())
			case len(args) == 1:
				variant, err := types.ParseVariant(args[0])
				if err != nil {
					return err
				}
				return d.one(cmd.Context(), variant)
			default:
				return d.choose(cmd.Context())
			}
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Download directory (defaults to download_dir from the config)")
	cmd.Flags().BoolVar(&outdated, "outdated", false, "Download every outdated installed variant")
	cmd.Flags().BoolVar(&install, "install", false, "Install the APK on the device after downloading")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// downloadRun holds the state of one download invocation. prompter is nil
// when stdin is not a terminal.
type downloadRun struct {
	svc      *Service
	prompter *interactive.Prompter
	out      io.Writer
	dest     string
	install  bool
	yes      bool
}

// one downloads a single variant, confirming its warning first.
func (d *downloadRun) one(ctx context.Context, variant types.Variant) error {
	if err := variant.Validate(); err != nil {
		return err
	}

	if warning := variant.Info().Warning; warning != "" && !d.yes {
		if d.prompter == nil {
			d.svc.log.WithField("variant", variant).Warn(warning)
		} else if !d.prompter.Confirm("%s\nDownload %s anyway?", warning, variant.Info().Title) {
			return errAborted
		}
	}

	return d.fetch(ctx, variant)
}

// fetch downloads variant and installs it when asked to.
func (d *downloadRun) fetch(ctx context.Context, variant types.Variant) error {
	path, err := d.svc.Download(ctx, variant, d.dest)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(d.out, path)

	if !d.install {
		return nil
	}
	_, err = d.svc.Install(ctx, path)
	return err
}

// choose asks which missing variant to download.
func (d *downloadRun) choose(ctx context.Context) error {
	if d.prompter == nil {
		return fmt.Errorf("a variant is required when not running on a terminal")
	}

	apps, err := d.svc.Available(ctx)
	if err != nil {
		return err
	}
	variants := make([]types.Variant, 0, len(apps))
	for _, a := range apps {
		variants = append(variants, a.Variant)
	}

	variant, ok := d.prompter.SelectVariant("Which app do you want to download?", variants)
	if !ok {
		return errAborted
	}

	for _, a := range apps {
		if a.Variant == variant && !a.Supported {
			abi, _ := d.svc.ABI(ctx)
			return fmt.Errorf("%s is not available for your device (%s): %w", a.Title, abi, update.ErrUnsupported)
		}
	}
	return d.one(ctx, variant)
}

// outdated downloads the installed variants that have an update.
func (d *downloadRun) outdated(ctx context.Context) error {
	statuses, err := d.svc.Status(ctx)
	if err != nil {
		return err
	}

	var selected []types.Variant
	if d.prompter != nil && !d.yes {
		var ok bool
		if selected, ok = d.prompter.SelectOutdated(statuses); !ok {
			return errAborted
		}
	} else {
		for _, s := range statuses {
			if s.Outdated {
				selected = append(selected, s.Variant)
			}
		}
	}

	if len(selected) == 0 {
		d.svc.log.Info("everything is up to date")
		return nil
	}

	var failed int
	for _, v := range selected {
		if err := d.fetch(ctx, v); err != nil {
			d.svc.log.WithField("variant", v).WithError(err).Error("update failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, len(selected))
	}
	return nil
}

// progressPrinter writes a single updating progress line to w. It prints
// nothing in quiet mode or when w is not a terminal.
func progressPrinter(w io.Writer) update.ProgressFunc {
	if quiet {
		return nil
	}
	if f, ok := w.(*os.File); !ok || !interactive.IsTerminalFile(f) {
		return nil
	}
	return func(p update.Progress) {
		if p.Percent < 0 {
			_, _ = fmt.Fprintf(w, "\r  %s", humanize.IBytes(uint64(p.Downloaded)))
			return
		}
		_, _ = fmt.Fprintf(w, "\r  %3d%% of %s", p.Percent, humanize.IBytes(uint64(p.Total)))
		if p.Percent == 100 {
			_, _ = fmt.Fprintln(w)
		}
	}
}
