package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/output"
)

func newAvailableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "available",
		Short: "List Firefox variants that are not installed",
		Long: `Available lists the Firefox variants missing from the device and whether
each one is built for the device ABI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(nil)
			if err != nil {
				return err
			}
			apps, err := svc.Available(cmd.Context())
			if err != nil {
				return err
			}

			writer, err := newWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return writer.Write(apps, availableTable(apps))
		},
	}
}

func availableTable(apps []AvailableApp) output.Table {
	t := output.Table{
		Headers: []string{"VARIANT", "TITLE", "SUPPORTED"},
		Empty:   "Every Firefox variant is installed.",
	}
	for _, a := range apps {
		t.Rows = append(t.Rows, []string{a.Variant.String(), a.Title, yesNo(a.Supported)})
	}
	return t
}
