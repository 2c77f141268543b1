// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
)

// RestyleBulletLists replaces bullet lists by their content, each block
// wrapped in a Div carrying a paragraph style chosen by nesting depth. The
// word processor then renders bullets from the style rather than from list
// numbering. It only runs for docx.
//
// The walk is post-order, so nested lists are flattened before their parent
// is visited. Their blocks come back as nodes emitted by this rule and are
// spliced into the parent's output without a second wrapper.
type RestyleBulletLists struct {
	styles   *styles.Resolver
	maxDepth int
}

// NewRestyleBulletLists returns the rule. maxDepth is the deepest bucket.
func NewRestyleBulletLists(r *styles.Resolver, maxDepth int) *RestyleBulletLists {
	return &RestyleBulletLists{styles: r, maxDepth: maxDepth}
}

func (*RestyleBulletLists) Name() string { return "restyle-bullet-lists" }

func (*RestyleBulletLists) Applies(format string) bool { return format == FormatDocx }

func (f *RestyleBulletLists) Apply(n ast.Node, c *ast.Cursor) ([]ast.Node, bool) {
	list, ok := n.(*ast.BulletList)
	if !ok {
		return nil, false
	}

	bucket := ListDepth(c, f.maxDepth)
	style := ""
	var out []ast.Node
	for _, item := range list.Items {
		for _, b := range item.Blocks {
			if f.keep(b, c) {
				out = append(out, b)
				continue
			}
			if style == "" {
				style = f.styles.Resolve(c.Doc.Meta, styles.KindBullet, bucket, "")
			}
			out = append(out, ast.NewDiv(style, b))
		}
	}
	return out, true
}

// keep reports whether b goes into the output without a wrapper: nested lists,
// blocks already produced by this rule, and Divs with an explicit style.
func (f *RestyleBulletLists) keep(b ast.Block, c *ast.Cursor) bool {
	if c.Emitted(b) {
		return true
	}
	switch v := b.(type) {
	case *ast.BulletList:
		return true
	case *ast.Div:
		return v.Attr.CustomStyle() != ""
	}
	return false
}
