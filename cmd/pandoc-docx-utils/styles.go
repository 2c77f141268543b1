// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "Print the style names the filter would use",
	Long: `Styles resolves every metadata key the filter consults (unnumbered
headings 1-4, the image wrapper, and each bullet list bucket) against the
config file and the built-in names, and prints the table.

With --from, the metadata of a pandoc JSON document is consulted first, as the
filter would. Produce one with: pandoc input.md -t json -o doc.json`,
	SilenceUsage: true,
	RunE:         runStyles,
}

func runStyles(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	from, _ := cmd.Flags().GetString("from")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	var src styles.Config = styles.MapConfig{}
	if from != "" {
		doc, err := readDocument(from)
		if err != nil {
			return err
		}
		src = doc.Meta
	}

	table := styles.NewResolver(cfg.Styles.Flatten()).Table(src, cfg.Lists.MaxDepth)
	return formatStyles(cmd.OutOrStdout(), table, jsonOutput)
}

func readDocument(path string) (*ast.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ast.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	return doc, nil
}

func formatStyles(w io.Writer, table []styles.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(table); err != nil {
		return fmt.Errorf("encoding style table: %w", err)
	}
	return enc.Close()
}

func init() {
	stylesCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	stylesCmd.Flags().String("from", "", "pandoc JSON document whose metadata is consulted first")

	rootCmd.AddCommand(stylesCmd)
}
