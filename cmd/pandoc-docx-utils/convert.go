// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-docx-utils/internal/pandoc"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Run pandoc with this program as a filter",
	Long: `Convert invokes pandoc on the input file with pandoc-docx-utils registered
as the first JSON filter. Additional filters run after it in the order given.
The config file in use is passed on to the filter process.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	to, _ := cmd.Flags().GetString("to")
	refDoc, _ := cmd.Flags().GetString("reference-doc")
	extra, _ := cmd.Flags().GetStringSlice("filter")

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}

	runner, err := pandoc.New()
	if err != nil {
		return err
	}

	if used := viper.ConfigFileUsed(); used != "" {
		if err := os.Setenv(envConfig, used); err != nil {
			return fmt.Errorf("passing config file to filter: %w", err)
		}
	}

	return runner.Convert(cmd.Context(), pandoc.Options{
		Input:        args[0],
		Output:       output,
		To:           to,
		ReferenceDoc: refDoc,
		Self:         self,
		Filters:      extra,
	})
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output file (required)")
	convertCmd.Flags().StringP("to", "t", "docx", "pandoc output format")
	convertCmd.Flags().String("reference-doc", "", "docx file providing the styles")
	convertCmd.Flags().StringSlice("filter", nil, "additional pandoc filter to run afterwards (repeatable)")
	_ = convertCmd.MarkFlagRequired("output")

	rootCmd.AddCommand(convertCmd)
}
