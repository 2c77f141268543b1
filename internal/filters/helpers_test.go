// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
)

func newDoc(format string, blocks ...ast.Block) *ast.Document {
	return &ast.Document{Format: format, Meta: ast.Meta{}, Blocks: blocks}
}

// words builds Str/Space inlines from a sentence.
func words(s string) []ast.Inline {
	var out []ast.Inline
	for i, w := range strings.Fields(s) {
		if i > 0 {
			out = append(out, &ast.Space{})
		}
		out = append(out, &ast.Str{Text: w})
	}
	return out
}

func plain(s string) *ast.Plain { return &ast.Plain{Inlines: words(s)} }
func para(s string) *ast.Para   { return &ast.Para{Inlines: words(s)} }

func item(blocks ...ast.Block) *ast.ListItem { return &ast.ListItem{Blocks: blocks} }

func bullets(items ...*ast.ListItem) *ast.BulletList { return &ast.BulletList{Items: items} }

func apply(t *testing.T, f Filter, doc *ast.Document) Report {
	t.Helper()
	rep, err := NewPipeline(f).Run(context.Background(), doc)
	require.NoError(t, err)
	return rep
}

// styleOf returns the custom-style of b, which must be a Div.
func styleOf(t *testing.T, b ast.Block) string {
	t.Helper()
	d, ok := b.(*ast.Div)
	require.Truef(t, ok, "expected *ast.Div, got %T", b)
	return d.Attr.CustomStyle()
}
