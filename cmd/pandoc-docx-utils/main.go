// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pandoc-docx-utils filter and CLI.
//
// Run without a subcommand it behaves as a pandoc JSON filter: the document
// arrives on stdin, the output format as the first argument, and the rewritten
// document leaves on stdout. Logs go to stderr.
//
//	pandoc input.md -t docx -o out.docx --filter=pandoc-docx-utils
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	appName   = "pandoc-docx-utils"
	envPrefix = "PANDOC_DOCX_UTILS"

	// envConfig carries the config file path to filter processes started by
	// the convert command.
	envConfig = envPrefix + "_CONFIG"
)

// rootCmd runs the filter.
var rootCmd = &cobra.Command{
	Use:   appName + " [format]",
	Short: "Pandoc filter that restyles documents for Word output",
	Long: `pandoc-docx-utils is a pandoc JSON filter. For docx output it turns
unnumbered headings into styled paragraphs, centers lone images, and replaces
bullet lists with paragraphs styled by nesting depth. For every format except
HTML it converts SVG images to PNG (or PDF for LaTeX) with rsvg-convert.

Style names come from the document metadata (heading-unnumbered.N,
image-div-style, bullet-style.N), then from the config file, then from
built-in defaults.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runFilter,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./pandoc-docx-utils.yaml or ~/.config/pandoc-docx-utils/pandoc-docx-utils.yaml)")
	pf.String("log-level", types.DefaultLogLevel, "log level: debug, info, warn, error")
	pf.String("log-format", types.DefaultLogFormat, "log format: text or json")
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	f := rootCmd.Flags()
	f.String("format", "", "output format, overriding the pandoc argument")
	f.String("raster-mode", string(types.RasterAsync), "wait for each SVG conversion (sync) or not (async)")
	f.Bool("await", false, "wait for outstanding SVG conversions after writing the document")
	f.Int("max-depth", types.DefaultMaxDepth, "deepest bullet list style bucket")
	f.String("ledger", "", "SQLite file recording SVG conversions")
	f.String("metrics-textfile", "", "write Prometheus metrics to this file after the run")
	_ = viper.BindPFlag("format", f.Lookup("format"))
	_ = viper.BindPFlag("raster.mode", f.Lookup("raster-mode"))
	_ = viper.BindPFlag("raster.await", f.Lookup("await"))
	_ = viper.BindPFlag("lists.max-depth", f.Lookup("max-depth"))
	_ = viper.BindPFlag("ledger.path", f.Lookup("ledger"))
	_ = viper.BindPFlag("metrics.textfile", f.Lookup("metrics-textfile"))

	setDefaults()
}

// setDefaults registers every config key so environment variables are seen by
// Unmarshal.
func setDefaults() {
	viper.SetDefault("format", "")
	viper.SetDefault("log.level", types.DefaultLogLevel)
	viper.SetDefault("log.format", types.DefaultLogFormat)
	viper.SetDefault("raster.tool", types.DefaultRasterTool)
	viper.SetDefault("raster.dir", types.DefaultRasterDir)
	viper.SetDefault("raster.mode", string(types.RasterAsync))
	viper.SetDefault("raster.await", false)
	viper.SetDefault("lists.max-depth", types.DefaultMaxDepth)
	viper.SetDefault("styles.defaults", map[string]any{})
	viper.SetDefault("ledger.path", "")
	viper.SetDefault("metrics.textfile", "")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile == "" {
		cfgFile = os.Getenv(envConfig)
	}
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(appName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configReadErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
