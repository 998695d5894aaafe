package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adamancini/ffupdate/internal/types"
)

func newURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url <variant>",
		Short: "Print the APK download URL of a variant",
		Long: `URL builds the download URL of a variant for the device ABI and checks
that Mozilla serves it. It exits non-zero when the APK is not published.

Examples:
  ffupdate url fennec_release
  ffupdate url fennec-nightly --abi aarch64`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeVariants,
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := types.ParseVariant(args[0])
			if err != nil {
				return err
			}

			svc, err := newService(nil)
			if err != nil {
				return err
			}
			url, ok, err := svc.Resolve(cmd.Context(), variant)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", variant, errUnavailable)
			}

			writer, err := newWriter(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			result := struct {
				Variant types.Variant `json:"variant" yaml:"variant"`
				URL     string        `json:"url" yaml:"url"`
			}{variant, url}
			return writer.Write(result, textLine(url))
		},
	}
}

// textLine is a single line of text output.
type textLine string

func (l textLine) String() string {
	return string(l) + "\n"
}
