// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/logfields"
	"github.com/pdiddy/pandoc-docx-utils/internal/metrics"
	"github.com/pdiddy/pandoc-docx-utils/internal/rasterize"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
)

// Deps are the collaborators of the default rule set.
type Deps struct {
	Styles *styles.Resolver

	// Converter launches SVG conversions. When nil the rasterizing rule is
	// left out.
	Converter Launcher

	// MaxDepth is the deepest bullet list bucket.
	MaxDepth int

	Logger *slog.Logger
}

// Default returns the rules in the order they must run: headings, vector
// images, inline figures, bullet lists.
func Default(d Deps) []Filter {
	fs := []Filter{NewUnnumberHeadings(d.Styles)}
	if d.Converter != nil {
		fs = append(fs, NewRasterizeVectors(d.Converter, d.Logger))
	}
	return append(fs,
		NewCenterFigures(d.Styles),
		NewRestyleBulletLists(d.Styles, d.MaxDepth),
	)
}

// Report summarizes one pipeline run.
type Report struct {
	Format   string
	Rewrites map[string]int
	Skipped  []string
	Tasks    []*rasterize.Task
}

// Total returns the number of rewrites across all rules.
func (r Report) Total() int {
	n := 0
	for _, v := range r.Rewrites {
		n += v
	}
	return n
}

// Pipeline applies rules to a document one full traversal at a time.
type Pipeline struct {
	filters []Filter
	log     *slog.Logger
	rec     metrics.Recorder
}

// NewPipeline returns a pipeline over filters, in the given order.
func NewPipeline(filters ...Filter) *Pipeline {
	return &Pipeline{
		filters: filters,
		log:     slog.New(slog.DiscardHandler),
		rec:     metrics.NoopRecorder{},
	}
}

// WithLogger sets the logger and returns p.
func (p *Pipeline) WithLogger(l *slog.Logger) *Pipeline {
	if l != nil {
		p.log = l
	}
	return p
}

// WithRecorder sets the metrics recorder and returns p.
func (p *Pipeline) WithRecorder(r metrics.Recorder) *Pipeline {
	if r != nil {
		p.rec = r
	}
	return p
}

// Filters returns the rules in run order.
func (p *Pipeline) Filters() []Filter {
	return p.filters
}

// Run rewrites doc in place. doc.Format is normalized first (extensions are
// stripped) and each rule whose gate accepts it walks the whole document once.
// The context is checked between rules.
func (p *Pipeline) Run(ctx context.Context, doc *ast.Document) (Report, error) {
	doc.Format = NormalizeFormat(doc.Format)
	if doc.Meta == nil {
		doc.Meta = ast.Meta{}
	}
	rep := Report{Format: doc.Format, Rewrites: make(map[string]int)}

	for _, f := range p.filters {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		name := f.Name()
		if !f.Applies(doc.Format) {
			p.log.Debug("filter skipped", logfields.Filter(name), logfields.Format(doc.Format))
			rep.Skipped = append(rep.Skipped, name)
			continue
		}

		start := time.Now()
		n := 0
		err := ast.Walk(doc, func(node ast.Node, c *ast.Cursor) ([]ast.Node, bool) {
			repl, ok := f.Apply(node, c)
			if ok {
				n++
			}
			return repl, ok
		})
		if err != nil {
			return rep, fmt.Errorf("running filter %s: %w", name, err)
		}
		elapsed := time.Since(start)

		rep.Rewrites[name] = n
		p.rec.ObserveFilterDuration(name, elapsed)
		p.rec.AddRewrites(name, n)
		p.log.Debug("filter applied", logfields.Filter(name), logfields.Rewrites(n), logfields.Duration(elapsed))

		if tr, ok := f.(interface{ Tasks() []*rasterize.Task }); ok {
			rep.Tasks = append(rep.Tasks, tr.Tasks()...)
		}
	}
	return rep, nil
}
