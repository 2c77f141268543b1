// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/internal/styles"
)

// CenterFigures wraps paragraphs that hold nothing but an image in a styled
// Div, typically a centered caption style. Pandoc 3 turns a lone image with
// alt text into a Figure; a Figure whose only content is one image is wrapped
// the same way. It only runs for docx.
type CenterFigures struct {
	styles *styles.Resolver
}

func NewCenterFigures(r *styles.Resolver) *CenterFigures {
	return &CenterFigures{styles: r}
}

func (*CenterFigures) Name() string { return "center-figures" }

func (*CenterFigures) Applies(format string) bool { return format == FormatDocx }

// Apply moves a custom-style found on the image onto the wrapping Div.
func (f *CenterFigures) Apply(n ast.Node, c *ast.Cursor) ([]ast.Node, bool) {
	var img *ast.Image
	switch v := n.(type) {
	case *ast.Para:
		if _, inFigure := c.Parent().(*ast.Figure); inFigure {
			return nil, false
		}
		img = loneImage(v.Inlines)
	case *ast.Figure:
		if len(v.Blocks) != 1 {
			return nil, false
		}
		switch b := v.Blocks[0].(type) {
		case *ast.Plain:
			img = loneImage(b.Inlines)
		case *ast.Para:
			img = loneImage(b.Inlines)
		}
	}
	if img == nil {
		return nil, false
	}

	override := img.Attr.CustomStyle()
	img.Attr.Delete(ast.CustomStyleKey)
	style := f.styles.Resolve(c.Doc.Meta, styles.KindImage, 0, override)

	return replaceWith(ast.NewDiv(style, n.(ast.Block)))
}

func loneImage(inlines []ast.Inline) *ast.Image {
	if len(inlines) != 1 {
		return nil
	}
	img, _ := inlines[0].(*ast.Image)
	return img
}
