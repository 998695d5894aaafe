package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/output"
	"github.com/adamancini/ffupdate/internal/update"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installed Firefox variants and their updates",
		Long: `Status lists every Firefox variant installed on the device with the
installed version, the latest published version and whether an update is due.

Firefox Klar, Focus and Fenix are checked against Mozilla's CI, since they
are not published on ftp.mozilla.org. Firefox Lite is not tracked. Variants
listed under exclude in the config are shown without an update check.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(nil)
			if err != nil {
				return err
			}
			statuses, err := svc.Status(cmd.Context())
			if err != nil {
				return err
			}

			writer, err := newWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writer.Write(statuses, statusTable(statuses))
		},
	}
}

// statusTable renders statuses for text output.
func statusTable(statuses []update.AppStatus) output.Table {
	t := output.Table{
		Headers: []string{"VARIANT", "TITLE", "INSTALLED", "AVAILABLE", "OUTDATED"},
		Empty:   "No Firefox variant is installed.",
	}
	for _, s := range statuses {
		outdated := yesNo(s.Outdated)
		switch {
		case s.Excluded:
			outdated = "excluded"
		case !s.Tracked:
			outdated = "-"
		}
		t.Rows = append(t.Rows, []string{s.Variant.String(), s.Title, s.Installed, orDash(s.Available), outdated})
	}
	return t
}
