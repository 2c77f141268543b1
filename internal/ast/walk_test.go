// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk_PostOrderWithAncestors(t *testing.T) {
	inner := &Str{Text: "deep"}
	doc := &Document{Blocks: []Block{
		&BulletList{Items: []*ListItem{
			{Blocks: []Block{&Plain{Inlines: []Inline{inner}}}},
		}},
	}}

	var order []string
	var innerAncestors int
	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		switch n.(type) {
		case *Str:
			order = append(order, "Str")
			innerAncestors = len(c.Ancestors())
			_, isPlain := c.Parent().(*Plain)
			assert.True(t, isPlain)
		case *Plain:
			order = append(order, "Plain")
		case *ListItem:
			order = append(order, "ListItem")
		case *BulletList:
			order = append(order, "BulletList")
			assert.Nil(t, c.Parent())
		}
		return nil, false
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Str", "Plain", "ListItem", "BulletList"}, order)
	assert.Equal(t, 3, innerAncestors)
}

func TestWalk_ReplaceDeleteSplice(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Para{Inlines: []Inline{&Str{Text: "keep"}}},
		&RawBlockElement{Tag: "HorizontalRule"},
		&Plain{Inlines: []Inline{&Str{Text: "split"}}},
	}}

	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		switch v := n.(type) {
		case *RawBlockElement:
			return nil, true
		case *Plain:
			return []Node{&Para{Inlines: v.Inlines}, &Para{Inlines: []Inline{&Str{Text: "extra"}}}}, true
		}
		return nil, false
	})
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "keep", Text(doc.Blocks[0].(*Para).Inlines))
	assert.Equal(t, "split", Text(doc.Blocks[1].(*Para).Inlines))
	assert.Equal(t, "extra", Text(doc.Blocks[2].(*Para).Inlines))
}

func TestWalk_EmittedNodesAreTracked(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Div{Blocks: []Block{&Plain{Inlines: []Inline{&Str{Text: "x"}}}}},
	}}

	var sawEmitted bool
	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		switch v := n.(type) {
		case *Plain:
			return []Node{&Para{Inlines: v.Inlines}}, true
		case *Div:
			sawEmitted = c.Emitted(v.Blocks[0])
		}
		return nil, false
	})
	require.NoError(t, err)
	assert.True(t, sawEmitted)
}

func TestWalk_RejectsInvalidReplacement(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		repl Node
		at   func(Node) bool
	}{
		{
			name: "block in inline position",
			doc:  &Document{Blocks: []Block{&Para{Inlines: []Inline{&Str{Text: "x"}}}}},
			repl: &Para{},
			at:   func(n Node) bool { _, ok := n.(*Str); return ok },
		},
		{
			name: "inline in block position",
			doc:  &Document{Blocks: []Block{&Para{}}},
			repl: &Str{Text: "x"},
			at:   func(n Node) bool { _, ok := n.(*Para); return ok },
		},
		{
			name: "block in list item position",
			doc:  &Document{Blocks: []Block{&BulletList{Items: []*ListItem{{}}}}},
			repl: &Para{},
			at:   func(n Node) bool { _, ok := n.(*ListItem); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Walk(tt.doc, func(n Node, c *Cursor) ([]Node, bool) {
				if tt.at(n) {
					return []Node{tt.repl}, true
				}
				return nil, false
			})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidReplacement))
		})
	}
}

func TestWalk_VisitsFigureContent(t *testing.T) {
	img := &Image{URL: "flow.svg"}
	doc := &Document{Blocks: []Block{&Figure{
		Caption: []Block{&Plain{Inlines: []Inline{&Str{Text: "Flow"}}}},
		Blocks:  []Block{&Plain{Inlines: []Inline{img}}},
	}}}

	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		if n == Node(img) {
			_, inFigure := c.Ancestors()[0].(*Figure)
			assert.True(t, inFigure)
			return []Node{&Image{URL: "flow.png"}}, true
		}
		return nil, false
	})
	require.NoError(t, err)

	f := doc.Blocks[0].(*Figure)
	got := f.Blocks[0].(*Plain).Inlines[0].(*Image)
	assert.Equal(t, "flow.png", got.URL)
}

func imageURLs(t *testing.T, doc *Document) []string {
	t.Helper()
	var urls []string
	require.NoError(t, Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		if img, ok := n.(*Image); ok {
			urls = append(urls, img.URL)
		}
		return nil, false
	}))
	return urls
}

func TestWalk_VisitsContainerContent(t *testing.T) {
	img := func() *Image { return &Image{URL: "x.svg"} }
	inPara := func(i Inline) []Block { return []Block{&Para{Inlines: []Inline{i}}} }
	cell := func(i Inline) Cell { return Cell{Blocks: []Block{&Plain{Inlines: []Inline{i}}}} }

	tests := []struct {
		name      string
		blocks    []Block
		container func(Node) bool
	}{
		{
			name:      "footnote",
			blocks:    inPara(&Note{Blocks: inPara(img())}),
			container: func(n Node) bool { _, ok := n.(*Note); return ok },
		},
		{
			name:      "quote",
			blocks:    inPara(&Quoted{Inlines: []Inline{img()}}),
			container: func(n Node) bool { _, ok := n.(*Quoted); return ok },
		},
		{
			name:      "citation",
			blocks:    inPara(&Cite{Inlines: []Inline{img()}}),
			container: func(n Node) bool { _, ok := n.(*Cite); return ok },
		},
		{
			name:      "line block",
			blocks:    []Block{&LineBlock{Lines: [][]Inline{{&Str{Text: "a"}}, {img()}}}},
			container: func(n Node) bool { _, ok := n.(*LineBlock); return ok },
		},
		{
			name: "definition term",
			blocks: []Block{&DefinitionList{Items: []*DefinitionItem{
				{Term: []Inline{img()}},
			}}},
			container: func(n Node) bool { _, ok := n.(*DefinitionList); return ok },
		},
		{
			name: "definition body",
			blocks: []Block{&DefinitionList{Items: []*DefinitionItem{
				{Term: []Inline{&Str{Text: "t"}}, Definitions: [][]Block{inPara(img())}},
			}}},
			container: func(n Node) bool { _, ok := n.(*DefinitionList); return ok },
		},
		{
			name:      "table caption",
			blocks:    []Block{&Table{Caption: inPara(img())}},
			container: func(n Node) bool { _, ok := n.(*Table); return ok },
		},
		{
			name:      "table head",
			blocks:    []Block{&Table{Head: TableSection{Rows: []Row{{Cells: []Cell{cell(img())}}}}}},
			container: func(n Node) bool { _, ok := n.(*Table); return ok },
		},
		{
			name: "table body",
			blocks: []Block{&Table{Bodies: []TableBody{{
				Head: []Row{{Cells: []Cell{cell(&Str{Text: "h"})}}},
				Rows: []Row{{Cells: []Cell{cell(&Str{Text: "a"}), cell(img())}}},
			}}}},
			container: func(n Node) bool { _, ok := n.(*Table); return ok },
		},
		{
			name:      "table foot",
			blocks:    []Block{&Table{Foot: TableSection{Rows: []Row{{Cells: []Cell{cell(img())}}}}}},
			container: func(n Node) bool { _, ok := n.(*Table); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{Blocks: tt.blocks}
			var enclosed bool
			err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
				img, ok := n.(*Image)
				if !ok || img.URL != "x.svg" {
					return nil, false
				}
				for _, a := range c.Ancestors() {
					enclosed = enclosed || tt.container(a)
				}
				return []Node{&Image{URL: "x.png"}}, true
			})
			require.NoError(t, err)
			assert.True(t, enclosed)
			assert.Equal(t, []string{"x.png"}, imageURLs(t, doc))
		})
	}
}

func TestWalk_ReplacesBlocksInsideContainers(t *testing.T) {
	list := func() *BulletList {
		return &BulletList{Items: []*ListItem{{Blocks: []Block{&Plain{Inlines: []Inline{&Str{Text: "x"}}}}}}}
	}
	note := &Note{Blocks: []Block{list()}}
	dl := &DefinitionList{Items: []*DefinitionItem{{Definitions: [][]Block{{list()}}}}}
	tbl := &Table{Bodies: []TableBody{{Rows: []Row{{Cells: []Cell{{Blocks: []Block{list()}}}}}}}}
	doc := &Document{Blocks: []Block{&Para{Inlines: []Inline{note}}, dl, tbl}}

	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		if _, ok := n.(*BulletList); ok {
			return []Node{&Div{}}, true
		}
		return nil, false
	})
	require.NoError(t, err)

	_, ok := note.Blocks[0].(*Div)
	assert.True(t, ok, "footnote block is %T", note.Blocks[0])
	_, ok = dl.Items[0].Definitions[0][0].(*Div)
	assert.True(t, ok, "definition block is %T", dl.Items[0].Definitions[0][0])
	got := tbl.Bodies[0].Rows[0].Cells[0].Blocks[0]
	_, ok = got.(*Div)
	assert.True(t, ok, "cell block is %T", got)
}

func TestWalk_RejectsInlineInCell(t *testing.T) {
	doc := &Document{Blocks: []Block{&Table{
		Bodies: []TableBody{{Rows: []Row{{Cells: []Cell{{Blocks: []Block{&Para{}}}}}}}},
	}}}
	err := Walk(doc, func(n Node, c *Cursor) ([]Node, bool) {
		if _, ok := n.(*Para); ok {
			return []Node{&Str{Text: "x"}}, true
		}
		return nil, false
	})
	assert.ErrorIs(t, err, ErrInvalidReplacement)
}
