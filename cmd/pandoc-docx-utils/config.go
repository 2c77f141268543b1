// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// configReadErr is set by initConfig when a config file exists but cannot be
// parsed.
var configReadErr error

// loadConfig decodes the merged flags, environment and config file.
func loadConfig(v *viper.Viper) (types.FilterConfig, error) {
	var cfg types.FilterConfig
	if configReadErr != nil {
		return cfg, configReadErr
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	cfg = cfg.WithDefaults()

	switch cfg.Raster.Mode {
	case types.RasterAsync, types.RasterSync:
	default:
		return cfg, fmt.Errorf("raster.mode must be %q or %q, got %q", types.RasterAsync, types.RasterSync, cfg.Raster.Mode)
	}
	return cfg, nil
}

// newLogger returns a logger writing to w at the configured level and format.
func newLogger(cfg types.LogConfig, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", cfg.Format)
}
