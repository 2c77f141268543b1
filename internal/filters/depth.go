// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filters

import (
	"github.com/pdiddy/pandoc-docx-utils/internal/ast"
	"github.com/pdiddy/pandoc-docx-utils/pkg/types"
)

// DefaultMaxDepth is the deepest bucket: nesting beyond it shares its style.
const DefaultMaxDepth = types.DefaultMaxDepth

// ListDepth returns the nesting bucket of the node at c: the number of list
// items enclosing it, capped at max. A top-level list is 0.
func ListDepth(c *ast.Cursor, max int) int {
	if max < 0 {
		max = 0
	}
	depth := 0
	for _, a := range c.Ancestors() {
		if _, ok := a.(*ast.ListItem); ok {
			depth++
		}
	}
	return min(depth, max)
}
