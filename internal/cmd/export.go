package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/device"
	"github.com/adamancini/ffupdate/internal/output"
)

func newExportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the device's Firefox packages as an inventory",
		Long: `Export reads the Firefox variants installed on the device and writes them
as an inventory file. The inventory can be passed back with --inventory to
check for updates without the device attached.

The file format follows the extension of --file (.yaml, .toml or .json).
Without --file the inventory is printed, as YAML unless --output says otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(nil)
			if err != nil {
				return err
			}
			inv, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}

			if file != "" {
				if err := device.WriteInventory(file, inv); err != nil {
					return err
				}
				svc.log.WithField("path", file).Infof("exported %d packages", len(inv.Packages))
				return nil
			}

			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			// Default to YAML for export text format (most readable)
			if format == output.FormatText {
				format = output.FormatYAML
			}
			return output.NewWriter(cmd.OutOrStdout(), format).Write(inv, nil)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write the inventory to this file")

	return cmd
}
