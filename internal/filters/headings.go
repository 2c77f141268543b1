// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
)

const classUnnumbered = "unnumbered"

// maxUnnumberedLevel is the first heading level left as a heading.
const maxUnnumberedLevel = 5

// UnnumberHeadings turns headings marked "unnumbered" into styled paragraphs,
// so the word processor does not number them. It only runs for docx.
type UnnumberHeadings struct {
	styles *styles.Resolver
}

// NewUnnumberHeadings returns the rule. A nil resolver uses built-in names.
func NewUnnumberHeadings(r *styles.Resolver) *UnnumberHeadings {
	return &UnnumberHeadings{styles: r}
}

func (*UnnumberHeadings) Name() string { return "unnumber-headings" }

func (*UnnumberHeadings) Applies(format string) bool { return format == FormatDocx }

// Apply replaces a qualifying header by a Div holding one paragraph with the
// header's inlines. The Div keeps the header's id, classes and attributes.
func (f *UnnumberHeadings) Apply(n ast.Node, c *ast.Cursor) ([]ast.Node, bool) {
	h, ok := n.(*ast.Header)
	if !ok || h.Level < 1 || h.Level >= maxUnnumberedLevel || !h.Attr.HasClass(classUnnumbered) {
		return nil, false
	}

	style := f.styles.Resolve(c.Doc.Meta, styles.KindHeadingUnnumbered, h.Level, h.Attr.CustomStyle())
	attr := h.Attr.Clone()
	attr.Set(ast.CustomStyleKey, style)

	return replaceWith(&ast.Div{
		Attr:   attr,
		Blocks: []ast.Block{&ast.Para{Inlines: h.Inlines}},
	})
}
