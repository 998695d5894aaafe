package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/output"
	"github.com/adamancini/ffupdate/internal/types"
)

var (
	// Global flags
	outputFormat  string
	configPath    string
	inventoryPath string
	abiFlag       string
	serial        string
	verbose       bool
	quiet         bool

	ffupdateVersion = "dev"
	ffupdateCommit  = "none"
	ffupdateDate    = "unknown"
)

func Execute(version, commit, date string) error {
	ffupdateVersion = version
	ffupdateCommit = commit
	ffupdateDate = date

	rootCmd := &cobra.Command{
		Use:   "ffupdate",
		Short: "Keep Firefox for Android up to date",
		Long: `ffupdate checks which Firefox variants are installed on an Android device,
reports the ones that are outdated and fetches the matching APK from Mozilla.

The device is reached with adb, or read from an inventory file written by
'ffupdate export'.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				logrus.SetLevel(logrus.DebugLevel)
			case quiet:
				logrus.SetLevel(logrus.ErrorLevel)
			default:
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "i", "", "Read installed packages from an inventory file instead of adb")
	rootCmd.PersistentFlags().StringVar(&abiFlag, "abi", "", "Device ABI (detected from the device when empty)")
	rootCmd.PersistentFlags().StringVar(&serial, "serial", "", "adb device serial")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newAvailableCmd())
	rootCmd.AddCommand(newURLCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion functions
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.AllFormats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("abi", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		abis := make([]string, 0, len(types.AllABIs()))
		for _, a := range types.AllABIs() {
			abis = append(abis, a.String())
		}
		return abis, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}

// completeVariants completes variant names for commands taking one argument.
func completeVariants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	variants := make([]string, 0, len(types.AllVariants()))
	for _, v := range types.AllVariants() {
		variants = append(variants, v.String())
	}
	return variants, cobra.ShellCompDirectiveNoFileComp
}
