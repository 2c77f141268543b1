// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// RasterMode selects whether rasterization tasks are awaited.
type RasterMode string

const (
	// RasterAsync launches the converter and moves on without waiting.
	RasterAsync RasterMode = "async"

	// RasterSync waits for each conversion before the filter continues.
	RasterSync RasterMode = "sync"
)

// RasterConfig holds settings for vector image rasterization.
type RasterConfig struct {
	// Tool is the converter binary looked up on PATH (default "rsvg-convert").
	Tool string `json:"tool" yaml:"tool" mapstructure:"tool"`

	// Dir is the output directory for converted files (default "svg").
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Mode is async (fire-and-forget) or sync.
	Mode RasterMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Await makes the CLI wait for outstanding conversions after writing the
	// document, so failures are logged and recorded.
	Await bool `json:"await" yaml:"await" mapstructure:"await"`
}

// ListConfig holds settings for bullet list restyling.
type ListConfig struct {
	// MaxDepth is the deepest bucket; deeper nesting saturates to it (default 2).
	MaxDepth int `json:"max_depth" yaml:"max-depth" mapstructure:"max-depth"`
}

// StyleConfig holds fallback style names used when the document metadata does
// not name one.
type StyleConfig struct {
	// Defaults maps metadata keys (e.g. "heading-unnumbered.1") to style names.
	// Dotted keys may also be written as nested maps; Flatten joins them.
	Defaults map[string]any `json:"defaults" yaml:"defaults" mapstructure:"defaults"`
}

// Flatten returns Defaults with nested maps collapsed into dotted keys, so
// {heading-unnumbered: {1: X}} becomes {"heading-unnumbered.1": X}.
func (s StyleConfig) Flatten() map[string]string {
	out := make(map[string]string)
	flatten("", s.Defaults, out)
	return out
}

func flatten(prefix string, v any, out map[string]string) {
	join := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "." + k
	}
	switch t := v.(type) {
	case map[string]any:
		for k, vv := range t {
			flatten(join(k), vv, out)
		}
	case map[any]any:
		for k, vv := range t {
			flatten(join(fmt.Sprint(k)), vv, out)
		}
	case map[string]string:
		for k, vv := range t {
			out[join(k)] = vv
		}
	case nil:
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(t)
		}
	}
}

// LedgerConfig holds settings for the rasterization ledger.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty disables the ledger.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// MetricsConfig holds settings for metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each run, for the
	// node_exporter textfile collector. Empty disables export.
	Textfile string `json:"textfile" yaml:"textfile" mapstructure:"textfile"`
}

// LogConfig holds logging settings. Logs always go to stderr; stdout carries
// the document.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default warn).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is text or json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// FilterConfig groups all settings of the filter program.
type FilterConfig struct {
	// Format overrides the output format pandoc passes as the first argument.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Raster  RasterConfig  `json:"raster" yaml:"raster" mapstructure:"raster"`
	Lists   ListConfig    `json:"lists" yaml:"lists" mapstructure:"lists"`
	Styles  StyleConfig   `json:"styles" yaml:"styles" mapstructure:"styles"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// Default values applied by WithDefaults.
const (
	DefaultRasterTool = "rsvg-convert"
	DefaultRasterDir  = "svg"
	DefaultMaxDepth   = 2
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c FilterConfig) WithDefaults() FilterConfig {
	if c.Raster.Tool == "" {
		c.Raster.Tool = DefaultRasterTool
	}
	if c.Raster.Dir == "" {
		c.Raster.Dir = DefaultRasterDir
	}
	if c.Raster.Mode == "" {
		c.Raster.Mode = RasterAsync
	}
	if c.Lists.MaxDepth < 0 {
		c.Lists.MaxDepth = 0
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	return c
}
