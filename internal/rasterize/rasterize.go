// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rasterize converts vector images to raster or PDF files with an
// external tool (rsvg-convert by default).
//
// The tool must be on PATH when a Converter is built. Each conversion runs as a
// separate process and is represented by a Task; callers decide whether to wait
// for it. In async mode nothing waits and failures go unnoticed unless the
// caller later calls Wait.
package rasterize

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdiddy/pandoc-docx-utils/internal/logfields"
	"github.com/pdiddy/pandoc-docx-utils/internal/metrics"
	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// ErrToolNotFound is returned by New when the converter binary is not on PATH.
var ErrToolNotFound = errors.New("rasterization tool not found on PATH")

// idLength is the number of hex characters of the content hash used in
// output file names.
const idLength = 8

// executor abstracts process creation for testing.
type executor interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) (process, error)
}

// process is a started command.
type process interface {
	Wait() error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Start(name string, args ...string) (process, error) {
	cmd := exec.Command(name, args...)
	p := &cmdProcess{cmd: cmd}
	cmd.Stderr = &p.stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

// cmdProcess adds the tool's stderr to the exit error.
type cmdProcess struct {
	cmd    *exec.Cmd
	stderr bytes.Buffer
}

func (p *cmdProcess) Wait() error {
	err := p.cmd.Wait()
	if err != nil {
		if msg := strings.TrimSpace(p.stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
	}
	return err
}

var defaultExec executor = &osExecutor{}

// Task is one launched conversion.
type Task struct {
	Source string
	Output string
	Format string

	done chan struct{}
	err  error
}

func newTask(source, output, format string) *Task {
	return &Task{Source: source, Output: output, Format: format, done: make(chan struct{})}
}

// Done is closed when the conversion process has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the conversion error. It is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the conversion finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Converter) { c.rec = r }
}

// Converter launches conversions into one output directory.
type Converter struct {
	tool     string
	toolPath string
	dir      string
	mode     types.RasterMode
	exec     executor
	log      *slog.Logger
	rec      metrics.Recorder

	dirOnce sync.Once
	dirErr  error

	mu    sync.Mutex
	tasks []*Task
}

// New checks that cfg.Tool is on PATH and returns a Converter. A missing tool
// is reported as ErrToolNotFound.
func New(cfg types.RasterConfig, opts ...Option) (*Converter, error) {
	return newConverter(cfg, defaultExec, opts...)
}

func newConverter(cfg types.RasterConfig, exec executor, opts ...Option) (*Converter, error) {
	tool := cfg.Tool
	if tool == "" {
		tool = types.DefaultRasterTool
	}
	dir := cfg.Dir
	if dir == "" {
		dir = types.DefaultRasterDir
	}
	mode := cfg.Mode
	if mode == "" {
		mode = types.RasterAsync
	}

	path, err := exec.LookPath(tool)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, tool)
	}

	c := &Converter{
		tool:     tool,
		toolPath: path,
		dir:      dir,
		mode:     mode,
		exec:     exec,
		log:      slog.New(slog.DiscardHandler),
		rec:      metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Tool returns the resolved path of the converter binary.
func (c *Converter) Tool() string { return c.toolPath }

// Mode returns the configured wait mode.
func (c *Converter) Mode() types.RasterMode { return c.mode }

// ContentID returns a short, stable identifier for source so repeated runs name
// the converted file identically.
func ContentID(source string) string {
	sum := sha1.Sum([]byte(source))
	return hex.EncodeToString(sum[:])[:idLength]
}

// TargetFormat picks the output file type for a pandoc output format: PDF for
// LaTeX-based writers, PNG otherwise.
func TargetFormat(docFormat string) string {
	switch docFormat {
	case "latex", "beamer":
		return "pdf"
	}
	return "png"
}

// Target returns the absolute output path a conversion of source would produce.
func (c *Converter) Target(source, docFormat string) (string, error) {
	name := ContentID(source) + "." + TargetFormat(docFormat)
	out, err := filepath.Abs(filepath.Join(c.dir, name))
	if err != nil {
		return "", fmt.Errorf("resolving output path for %s: %w", source, err)
	}
	return out, nil
}

func (c *Converter) ensureDir() error {
	c.dirOnce.Do(func() {
		if info, err := os.Stat(c.dir); err == nil {
			if !info.IsDir() {
				c.dirErr = fmt.Errorf("raster directory %s exists and is not a directory", c.dir)
			}
			return
		}
		c.log.Debug("creating raster directory", "dir", c.dir)
		if err := os.MkdirAll(c.dir, 0o755); err != nil {
			c.dirErr = fmt.Errorf("creating raster directory %s: %w", c.dir, err)
		}
	})
	return c.dirErr
}

// Convert starts `<tool> <source> -f <format> -o <output>`. In sync mode it
// returns after the process exits; otherwise it returns immediately. The
// returned error covers only failures to start; conversion failures are
// reported through the Task.
func (c *Converter) Convert(source, docFormat string) (*Task, error) {
	if err := c.ensureDir(); err != nil {
		return nil, err
	}
	output, err := c.Target(source, docFormat)
	if err != nil {
		return nil, err
	}
	format := TargetFormat(docFormat)

	p, err := c.exec.Start(c.toolPath, source, "-f", format, "-o", output)
	if err != nil {
		return nil, fmt.Errorf("starting %s for %s: %w", c.tool, source, err)
	}
	c.rec.IncRasterLaunched(format)
	c.log.Info("converting vector image", logfields.Source(source), logfields.Output(output), logfields.Format(format))

	t := newTask(source, output, format)
	go func() {
		err := p.Wait()
		if err != nil {
			err = fmt.Errorf("converting %s: %w", source, err)
		}
		t.finish(err)
	}()

	c.mu.Lock()
	c.tasks = append(c.tasks, t)
	c.mu.Unlock()

	if c.mode == types.RasterSync {
		<-t.Done()
		c.observe(t)
	}
	return t, nil
}

func (c *Converter) observe(t *Task) {
	err := t.Err()
	c.rec.IncRasterResult(err == nil)
	if err != nil {
		c.log.Warn("vector image conversion failed", logfields.Source(t.Source), logfields.Error(err))
	}
}

// Tasks returns every task launched so far.
func (c *Converter) Tasks() []*Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Task(nil), c.tasks...)
}

// Wait blocks until every launched task has finished or ctx is done. It
// returns the joined conversion errors.
func (c *Converter) Wait(ctx context.Context) error {
	var errs []error
	for _, t := range c.Tasks() {
		if err := t.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			errs = append(errs, err)
		}
		if c.mode != types.RasterSync {
			c.observe(t)
		}
	}
	return errors.Join(errs...)
}
