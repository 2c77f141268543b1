// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logfields holds the canonical slog attribute names shared by the
// filter pipeline, the rasterizer and the CLI.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyRunID      = "run_id"
	KeyFilter     = "filter"
	KeyFormat     = "format"
	KeySource     = "source"
	KeyOutput     = "output"
	KeyStyle      = "style"
	KeyRewrites   = "rewrites"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Filter(name string) slog.Attr   { return slog.String(KeyFilter, name) }
func Format(f string) slog.Attr      { return slog.String(KeyFormat, f) }
func Source(path string) slog.Attr   { return slog.String(KeySource, path) }
func Output(path string) slog.Attr   { return slog.String(KeyOutput, path) }
func Style(name string) slog.Attr    { return slog.String(KeyStyle, name) }
func Rewrites(n int) slog.Attr       { return slog.Int(KeyRewrites, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
