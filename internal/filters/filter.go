// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filters implements the document rewriting rules and the pipeline
// that applies them.
//
// Each rule is a Filter: a format gate plus a per-node action run by one
// ast.Walk over the whole document. The pipeline applies the rules one after
// another in a fixed order; rules never interleave.
package filters

import (
	"strings"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
)

// Output formats the rules gate on.
const (
	FormatDocx   = "docx"
	FormatLatex  = "latex"
	FormatBeamer = "beamer"
)

// htmlFormats are the writers that display SVG natively.
var htmlFormats = map[string]bool{
	"html":  true,
	"html4": true,
	"html5": true,
}

// Filter is one rewriting rule.
type Filter interface {
	// Name identifies the rule in logs, metrics and reports.
	Name() string

	// Applies reports whether the rule runs for the normalized output format.
	Applies(format string) bool

	// Apply inspects one node and optionally replaces it, with the same
	// contract as ast.Action. Apply never fails; nodes it does not handle are
	// left alone.
	Apply(n ast.Node, c *ast.Cursor) ([]ast.Node, bool)
}

// NormalizeFormat strips pandoc extension flags and lowercases the writer name:
// "docx+styles" and "DOCX-native_numbering" both become "docx".
func NormalizeFormat(format string) string {
	if i := strings.IndexAny(format, "+-"); i >= 0 {
		format = format[:i]
	}
	return strings.ToLower(strings.TrimSpace(format))
}

func replaceWith(n ast.Node) ([]ast.Node, bool) {
	return []ast.Node{n}, true
}
