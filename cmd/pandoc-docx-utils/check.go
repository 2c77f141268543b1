// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-docx-utils/internal/pandoc"
	"github.com/pdiddy/pandoc-docx-utils/internal/rasterize"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report whether the external tools are installed",
	Long: `Check looks for the SVG converter (rsvg-convert unless configured
otherwise) and pandoc on PATH. It fails when the converter is missing, since
the filter refuses to start without it.`,
	SilenceUsage: true,
	RunE:         runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	raster := pandoc.Inspect(cmd.Context(), cfg.Raster.Tool)
	doc := pandoc.Inspect(cmd.Context(), "pandoc")
	printTool(cmd.OutOrStdout(), raster)
	printTool(cmd.OutOrStdout(), doc)

	if !raster.OK() {
		return fmt.Errorf("%w: %s", rasterize.ErrToolNotFound, cfg.Raster.Tool)
	}
	return nil
}

func printTool(w io.Writer, st pandoc.ToolStatus) {
	if st.OK() {
		fmt.Fprintf(w, "ok       %-14s %s (%s)\n", st.Name, st.Version, st.Path)
		return
	}
	label := "missing"
	if st.Path != "" {
		label = "failed"
	}
	fmt.Fprintf(w, "%-8s %-14s %s\n", label, st.Name, st.Error)
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
