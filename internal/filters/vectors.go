// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"log/slog"
	"strings"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/logfields"
	"github.com/pdiddy/pandoc-docx-utils/internal/rasterize"
)

// Launcher starts the conversion of one vector image. *rasterize.Converter
// implements it.
type Launcher interface {
	Convert(source, docFormat string) (*rasterize.Task, error)
}

// RasterizeVectors points SVG images at a raster (or PDF) rendition produced
// by an external converter. It runs for every format except HTML.
type RasterizeVectors struct {
	conv  Launcher
	log   *slog.Logger
	tasks []*rasterize.Task
}

// NewRasterizeVectors returns the rule. A nil logger discards output.
func NewRasterizeVectors(conv Launcher, log *slog.Logger) *RasterizeVectors {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RasterizeVectors{conv: conv, log: log}
}

func (*RasterizeVectors) Name() string { return "rasterize-vectors" }

func (*RasterizeVectors) Applies(format string) bool { return !htmlFormats[format] }

// IsVector reports whether url names an SVG file.
func IsVector(url string) bool {
	return strings.HasSuffix(strings.ToLower(url), ".svg")
}

// Apply launches the conversion and returns a copy of the image pointing at
// the output path. When the launch fails the image is kept as is.
func (f *RasterizeVectors) Apply(n ast.Node, c *ast.Cursor) ([]ast.Node, bool) {
	img, ok := n.(*ast.Image)
	if !ok || !IsVector(img.URL) {
		return nil, false
	}

	task, err := f.conv.Convert(img.URL, c.Doc.Format)
	if err != nil {
		f.log.Warn("leaving vector image unconverted", logfields.Source(img.URL), logfields.Error(err))
		return nil, false
	}
	f.tasks = append(f.tasks, task)

	out := *img
	out.Attr = img.Attr.Clone()
	out.URL = task.Output
	return replaceWith(&out)
}

// Tasks returns the conversions launched by this rule.
func (f *RasterizeVectors) Tasks() []*rasterize.Task {
	return f.tasks
}
