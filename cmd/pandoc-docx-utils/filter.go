// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/filters"
	"github.com/pdiddy/pandoc-docx-utils/internal/ledger"
	"github.com/pdiddy/pandoc-docx-utils/internal/logfields"
	"github.com/pdiddy/pandoc-docx-utils/internal/metrics"
	"github.com/pdiddy/pandoc-docx-utils/internal/rasterize"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// rasterizer is the part of *rasterize.Converter the filter run uses.
type rasterizer interface {
	filters.Launcher
	Wait(ctx context.Context) error
}

// filterRun holds everything one document pass needs.
type filterRun struct {
	id     string
	format string
	cfg    types.FilterConfig
	log    *slog.Logger
	conv   rasterizer
	rec    metrics.Recorder
	prom   *metrics.PrometheusRecorder
}

func runFilter(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	r := &filterRun{
		id:     uuid.NewString(),
		format: cfg.Format,
		cfg:    cfg,
		rec:    metrics.NoopRecorder{},
	}
	if r.format == "" && len(args) > 0 {
		r.format = args[0]
	}
	r.log = log.With(logfields.RunID(r.id))

	if cfg.Metrics.Textfile != "" {
		r.prom = metrics.NewPrometheusRecorder(nil)
		r.rec = r.prom
	}

	// The converter is built before stdin is read so a missing tool stops the
	// run before any document is touched.
	conv, err := rasterize.New(cfg.Raster, rasterize.WithLogger(r.log), rasterize.WithRecorder(r.rec))
	if err != nil {
		return err
	}
	r.conv = conv

	return r.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

// run filters one document from in to out.
func (r *filterRun) run(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	doc, err := ast.Decode(in)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	doc.Format = r.format

	deps := filters.Deps{
		Styles:   styles.NewResolver(r.cfg.Styles.Flatten()),
		MaxDepth: r.cfg.Lists.MaxDepth,
		Logger:   r.log,
	}
	if r.conv != nil {
		deps.Converter = r.conv
	}
	p := filters.NewPipeline(filters.Default(deps)...).WithLogger(r.log).WithRecorder(r.rec)

	rep, err := p.Run(ctx, doc)
	if err != nil {
		return err
	}
	if err := ast.Encode(out, doc); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	r.log.Info("document filtered",
		logfields.Format(rep.Format),
		logfields.Rewrites(rep.Total()),
		logfields.Duration(time.Since(started)))

	l := r.openLedger()
	if l != nil {
		defer l.Close()
		r.recordRun(ctx, l, rep, started)
	}

	if r.cfg.Raster.Await && r.conv != nil && len(rep.Tasks) > 0 {
		if err := r.conv.Wait(ctx); err != nil {
			r.log.Warn("vector image conversions failed", logfields.Error(err))
		}
		if l != nil {
			r.completeRasters(ctx, l, rep.Tasks)
		}
	}

	r.writeMetrics()
	return nil
}

// openLedger returns the configured ledger, or nil when none is configured or
// it cannot be opened. Ledger problems are logged, never fatal: the document
// has already been written.
func (r *filterRun) openLedger() *ledger.Ledger {
	if r.cfg.Ledger.Path == "" {
		return nil
	}
	l, err := ledger.Open(r.cfg.Ledger)
	if err != nil {
		r.log.Warn("ledger unavailable", logfields.Error(err))
		return nil
	}
	return l
}

// recordRun stores the run and its conversions as launched.
func (r *filterRun) recordRun(ctx context.Context, l *ledger.Ledger, rep filters.Report, started time.Time) {
	recs := make([]types.RasterRecord, 0, len(rep.Tasks))
	for _, t := range rep.Tasks {
		recs = append(recs, taskRecord(t, started))
	}
	run := types.RunRecord{ID: r.id, Format: rep.Format, Rewrites: rep.Total(), StartedAt: started}
	if err := l.Record(ctx, run, recs); err != nil {
		r.log.Warn("recording run in ledger", logfields.Error(err))
	}
}

// completeRasters stores the outcome of every finished task.
func (r *filterRun) completeRasters(ctx context.Context, l *ledger.Ledger, tasks []*rasterize.Task) {
	for _, t := range tasks {
		select {
		case <-t.Done():
		default:
			continue
		}
		if err := l.Complete(ctx, r.id, t.Output, t.Err()); err != nil {
			r.log.Warn("completing ledger entry", logfields.Output(t.Output), logfields.Error(err))
		}
	}
}

// taskRecord converts a task into a ledger row. Tasks still running are
// recorded as pending.
func taskRecord(t *rasterize.Task, launched time.Time) types.RasterRecord {
	rec := types.RasterRecord{
		Source:     t.Source,
		Output:     t.Output,
		Format:     t.Format,
		Status:     types.RasterPending,
		LaunchedAt: launched,
	}
	select {
	case <-t.Done():
		now := time.Now()
		rec.CompletedAt = &now
		rec.Status = types.RasterSucceeded
		if err := t.Err(); err != nil {
			rec.Status = types.RasterFailed
			rec.Error = err.Error()
		}
	default:
	}
	return rec
}

func (r *filterRun) writeMetrics() {
	if r.prom == nil {
		return
	}
	if err := r.prom.WriteTextfile(r.cfg.Metrics.Textfile); err != nil {
		r.log.Warn("metrics export failed", logfields.Error(err))
	}
}
