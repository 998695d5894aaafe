package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/archive"
	"github.com/adamancini/ffupdate/internal/output"
)

func newCleanCmd() *cobra.Command {
	var (
		dest   string
		keep   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove old APKs from the download directory",
		Long: `Clean removes downloaded APKs that have been superseded, keeping the newest
--keep versions of every channel and ABI.

Examples:
  ffupdate clean
  ffupdate clean --keep 2 --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(nil)
			if err != nil {
				return err
			}
			if dest == "" {
				dest = svc.Config().DownloadDir
			}

			result, err := archive.NewManager(dest).Prune(keep, dryRun)
			if err != nil {
				return err
			}

			writer, err := newWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writer.Write(result, cleanTable(result, dryRun))
		},
	}

	cmd.Flags().StringVarP(&dest, "dest", "d", "", "Download directory (defaults to download_dir from the config)")
	cmd.Flags().IntVar(&keep, "keep", archive.DefaultKeepCount, "Number of versions to keep per channel and ABI")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be removed")

	return cmd
}

func cleanTable(result *archive.PruneResult, dryRun bool) output.Table {
	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	t := output.Table{
		Empty: fmt.Sprintf("Nothing to remove, %d kept.", result.Kept),
	}
	for _, apk := range result.Deleted {
		t.Rows = append(t.Rows, []string{verb, apk.Name, humanize.IBytes(uint64(apk.Size))})
	}
	return t
}
