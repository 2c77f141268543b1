// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"errors"
	"fmt"
)

// ErrInvalidReplacement is returned when an action replaces a node with one that
// cannot stand at the same position (an inline where a block is expected, or
// anything other than a list item inside a list).
var ErrInvalidReplacement = errors.New("invalid replacement")

// Action inspects one node. Returning ok=false leaves the node in place. With
// ok=true the returned nodes replace it: none deletes it, several are spliced
// in order.
type Action func(n Node, c *Cursor) (repl []Node, ok bool)

// Cursor describes where the visited node sits. It is only valid for the
// duration of the Action call.
type Cursor struct {
	Doc       *Document
	ancestors []Node
	emitted   map[Node]struct{}
}

// Ancestors returns the chain of enclosing nodes, outermost first. The
// document itself is not included.
func (c *Cursor) Ancestors() []Node {
	return c.ancestors
}

// Parent returns the closest enclosing node, or nil at the top level.
func (c *Cursor) Parent() Node {
	if len(c.ancestors) == 0 {
		return nil
	}
	return c.ancestors[len(c.ancestors)-1]
}

// Emitted reports whether n was returned by an earlier Action call of the same
// walk. The walk is post-order, so a node's children have already been
// rewritten when it is visited; this tells a rule which of them it produced.
func (c *Cursor) Emitted(n Node) bool {
	_, ok := c.emitted[n]
	return ok
}

// Walk applies act to every block, list item and inline of doc, children before
// parents, including the content of tables, definition lists, line blocks,
// footnotes, quotes and citations. Replacements are not revisited.
// RawBlockElement and RawInlineElement are leaves.
func Walk(doc *Document, act Action) error {
	w := &walker{doc: doc, act: act, emitted: make(map[Node]struct{})}
	blocks, err := w.blocks(doc.Blocks)
	if err != nil {
		return err
	}
	doc.Blocks = blocks
	return nil
}

type walker struct {
	doc     *Document
	act     Action
	stack   []Node
	emitted map[Node]struct{}
}

func (w *walker) blocks(in []Block) ([]Block, error) {
	out := make([]Block, 0, len(in))
	for _, b := range in {
		repl, err := w.visit(b)
		if err != nil {
			return nil, err
		}
		for _, r := range repl {
			rb, ok := r.(Block)
			if !ok {
				return nil, fmt.Errorf("%w: %T in block position", ErrInvalidReplacement, r)
			}
			out = append(out, rb)
		}
	}
	return out, nil
}

func (w *walker) inlines(in []Inline) ([]Inline, error) {
	out := make([]Inline, 0, len(in))
	for _, i := range in {
		repl, err := w.visit(i)
		if err != nil {
			return nil, err
		}
		for _, r := range repl {
			ri, ok := r.(Inline)
			if !ok {
				return nil, fmt.Errorf("%w: %T in inline position", ErrInvalidReplacement, r)
			}
			out = append(out, ri)
		}
	}
	return out, nil
}

func (w *walker) items(in []*ListItem) ([]*ListItem, error) {
	out := make([]*ListItem, 0, len(in))
	for _, it := range in {
		repl, err := w.visit(it)
		if err != nil {
			return nil, err
		}
		for _, r := range repl {
			ri, ok := r.(*ListItem)
			if !ok {
				return nil, fmt.Errorf("%w: %T in list item position", ErrInvalidReplacement, r)
			}
			out = append(out, ri)
		}
	}
	return out, nil
}

// visit rewrites n's children, then offers n itself to the action.
func (w *walker) visit(n Node) ([]Node, error) {
	w.stack = append(w.stack, n)
	err := w.children(n)
	w.stack = w.stack[:len(w.stack)-1]
	if err != nil {
		return nil, err
	}

	c := &Cursor{Doc: w.doc, ancestors: w.stack, emitted: w.emitted}
	repl, ok := w.act(n, c)
	if !ok {
		return []Node{n}, nil
	}
	for _, r := range repl {
		w.emitted[r] = struct{}{}
	}
	return repl, nil
}

func (w *walker) children(n Node) error {
	var err error
	switch v := n.(type) {
	case *Plain:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Para:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Header:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Div:
		v.Blocks, err = w.blocks(v.Blocks)
	case *BlockQuote:
		v.Blocks, err = w.blocks(v.Blocks)
	case *Figure:
		if v.Caption, err = w.blocks(v.Caption); err == nil {
			v.Blocks, err = w.blocks(v.Blocks)
		}
	case *BulletList:
		v.Items, err = w.items(v.Items)
	case *OrderedList:
		v.Items, err = w.items(v.Items)
	case *ListItem:
		v.Blocks, err = w.blocks(v.Blocks)
	case *Image:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Link:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Span:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Formatted:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Note:
		v.Blocks, err = w.blocks(v.Blocks)
	case *Quoted:
		v.Inlines, err = w.inlines(v.Inlines)
	case *Cite:
		v.Inlines, err = w.inlines(v.Inlines)
	case *LineBlock:
		for i := range v.Lines {
			if v.Lines[i], err = w.inlines(v.Lines[i]); err != nil {
				return err
			}
		}
	case *DefinitionList:
		for _, it := range v.Items {
			if it.Term, err = w.inlines(it.Term); err != nil {
				return err
			}
			for i := range it.Definitions {
				if it.Definitions[i], err = w.blocks(it.Definitions[i]); err != nil {
					return err
				}
			}
		}
	case *Table:
		err = w.table(v)
	}
	return err
}

// table visits the caption, then every cell in document order.
func (w *walker) table(t *Table) error {
	var err error
	if t.Caption, err = w.blocks(t.Caption); err != nil {
		return err
	}
	if err := w.rows(t.Head.Rows); err != nil {
		return err
	}
	for i := range t.Bodies {
		if err := w.rows(t.Bodies[i].Head); err != nil {
			return err
		}
		if err := w.rows(t.Bodies[i].Rows); err != nil {
			return err
		}
	}
	return w.rows(t.Foot.Rows)
}

func (w *walker) rows(rows []Row) error {
	for i := range rows {
		cells := rows[i].Cells
		for j := range cells {
			blocks, err := w.blocks(cells[j].Blocks)
			if err != nil {
				return err
			}
			cells[j].Blocks = blocks
		}
	}
	return nil
}
