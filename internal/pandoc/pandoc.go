// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc runs the pandoc binary with this program registered as a JSON
// filter, and inspects external tools for the check command.
package pandoc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const binPandoc = "pandoc"

// ErrPandocNotFound is returned when pandoc is not on PATH.
var ErrPandocNotFound = errors.New("pandoc not found on PATH")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Output runs the command and returns its stdout. On failure the error carries
// the command's stderr.
func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

var defaultExec executor = &osExecutor{}

// Options describes one document conversion.
type Options struct {
	Input  string
	Output string

	// To is the pandoc writer (default "docx").
	To string

	// ReferenceDoc is a docx whose styles the output inherits.
	ReferenceDoc string

	// Self is the filter executable inserted before Filters.
	Self string

	// Filters are additional JSON filters run after Self, in order.
	Filters []string

	// Extra is appended verbatim to the pandoc arguments.
	Extra []string
}

// Args builds the pandoc command line for opts.
func Args(opts Options) []string {
	to := opts.To
	if to == "" {
		to = "docx"
	}
	args := []string{opts.Input, "-t", to, "-o", opts.Output}
	if opts.ReferenceDoc != "" {
		args = append(args, "--reference-doc="+opts.ReferenceDoc)
	}
	if opts.Self != "" {
		args = append(args, "--filter="+opts.Self)
	}
	for _, f := range opts.Filters {
		args = append(args, "--filter="+f)
	}
	return append(args, opts.Extra...)
}

// Runner invokes pandoc.
type Runner struct {
	bin  string
	exec executor
}

// New locates pandoc on PATH.
func New() (*Runner, error) {
	return newRunner(defaultExec)
}

func newRunner(exec executor) (*Runner, error) {
	path, err := exec.LookPath(binPandoc)
	if err != nil {
		return nil, ErrPandocNotFound
	}
	return &Runner{bin: path, exec: exec}, nil
}

// Path returns the resolved pandoc binary.
func (r *Runner) Path() string { return r.bin }

// Convert runs pandoc for opts and waits for it to finish.
func (r *Runner) Convert(ctx context.Context, opts Options) error {
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("input and output are required")
	}
	if _, err := r.exec.Output(ctx, r.bin, Args(opts)...); err != nil {
		return fmt.Errorf("running pandoc on %s: %w", opts.Input, err)
	}
	return nil
}

// ToolStatus is the result of probing one external tool.
type ToolStatus struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the tool was found and answered the version query.
func (s ToolStatus) OK() bool { return s.Error == "" }

// Inspect looks name up on PATH and runs it with --version, keeping the first
// line of output.
func Inspect(ctx context.Context, name string) ToolStatus {
	return inspect(ctx, defaultExec, name)
}

func inspect(ctx context.Context, exec executor, name string) ToolStatus {
	st := ToolStatus{Name: name}
	path, err := exec.LookPath(name)
	if err != nil {
		st.Error = "not found on PATH"
		return st
	}
	st.Path = path

	out, err := exec.Output(ctx, path, "--version")
	if err != nil {
		st.Error = err.Error()
		return st
	}
	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	st.Version = strings.TrimSpace(line)
	return st
}
