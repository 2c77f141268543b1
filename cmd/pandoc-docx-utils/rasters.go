// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pandoc-docx-utils/internal/ledger"
	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

var rastersCmd = &cobra.Command{
	Use:   "rasters",
	Short: "List SVG conversions recorded in the ledger",
	Long: `Rasters prints the conversions recorded by earlier filter runs, most
recent first. Conversions that nobody waited for stay pending; run the filter
with --await to record their outcome.`,
	SilenceUsage: true,
	RunE:         runRasters,
}

func runRasters(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	failed, _ := cmd.Flags().GetBool("failed")
	runID, _ := cmd.Flags().GetString("run")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	path, _ := cmd.Flags().GetString("ledger")

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if path != "" {
		cfg.Ledger.Path = path
	}
	if cfg.Ledger.Path == "" {
		return fmt.Errorf("no ledger configured: set ledger.path or pass --ledger")
	}

	l, err := ledger.Open(cfg.Ledger)
	if err != nil {
		return err
	}
	defer l.Close()

	recs, err := l.List(cmd.Context(), ledger.ListOptions{Limit: limit, FailedOnly: failed, RunID: runID})
	if err != nil {
		return err
	}
	return formatRasters(cmd.OutOrStdout(), recs, jsonOutput)
}

func formatRasters(w io.Writer, recs []types.RasterRecord, jsonOutput bool) error {
	if recs == nil {
		recs = []types.RasterRecord{}
	}
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding ledger entries: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	rastersCmd.Flags().Int("limit", 0, "maximum entries (0 = 50)")
	rastersCmd.Flags().Bool("failed", false, "show failed conversions only")
	rastersCmd.Flags().String("run", "", "show conversions of one run ID")
	rastersCmd.Flags().Bool("json", false, "output as JSON instead of YAML")
	rastersCmd.Flags().String("ledger", "", "ledger file, overriding ledger.path")

	rootCmd.AddCommand(rastersCmd)
}
