// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ast models the subset of the pandoc document tree that the filters
// rewrite, and round-trips everything else untouched.
//
// Blocks and inlines form a closed set of variants covering every pandoc
// element that can contain other elements. Leaf elements outside that set
// (code, raw output, math, breaks, rules) decode into RawBlockElement or
// RawInlineElement, which keep their JSON payload verbatim so the serialized
// document is unchanged where no filter applies.
package ast

import "encoding/json"

// Element tags as they appear in the "t" field of the pandoc JSON AST.
const (
	TagPlain          = "Plain"
	TagPara           = "Para"
	TagHeader         = "Header"
	TagDiv            = "Div"
	TagBulletList     = "BulletList"
	TagOrderedList    = "OrderedList"
	TagBlockQuote     = "BlockQuote"
	TagFigure         = "Figure"
	TagLineBlock      = "LineBlock"
	TagDefinitionList = "DefinitionList"
	TagTable          = "Table"

	TagStr    = "Str"
	TagSpace  = "Space"
	TagImage  = "Image"
	TagLink   = "Link"
	TagSpan   = "Span"
	TagNote   = "Note"
	TagQuoted = "Quoted"
	TagCite   = "Cite"
)

// formattedTags lists inline tags whose content is a plain list of inlines.
var formattedTags = map[string]bool{
	"Emph":        true,
	"Strong":      true,
	"Underline":   true,
	"Strikeout":   true,
	"Superscript": true,
	"Subscript":   true,
	"SmallCaps":   true,
}

// Node is any element of the document tree.
type Node interface {
	node()
}

// Block is a block-level node.
type Block interface {
	Node
	block()
}

// Inline is an inline node.
type Inline interface {
	Node
	inline()
}

// Document is the root of the tree. Format is the output format pandoc is
// writing to; it is not part of the JSON and is supplied by the caller.
type Document struct {
	APIVersion []int
	Meta       Meta
	Blocks     []Block
	Format     string
}

// Plain is unwrapped inline content (tight list items, table cells).
type Plain struct {
	Inlines []Inline
}

// Para is a paragraph.
type Para struct {
	Inlines []Inline
}

// Header is a section heading of the given level.
type Header struct {
	Level   int
	Attr    Attr
	Inlines []Inline
}

// Div is a generic block container. Pandoc's docx writer maps its
// "custom-style" attribute to a named paragraph style.
type Div struct {
	Attr   Attr
	Blocks []Block
}

// BulletList is an unordered list.
type BulletList struct {
	Items []*ListItem
}

// OrderedList is a numbered list. The list attributes (start number, style,
// delimiter) are kept as raw JSON since no filter reads them.
type OrderedList struct {
	ListAttributes json.RawMessage
	Items          []*ListItem
}

// ListItem is one entry of a BulletList or OrderedList. It appears in the
// ancestor chain during a walk but is not a Block.
type ListItem struct {
	Blocks []Block
}

// BlockQuote is a quoted block.
type BlockQuote struct {
	Blocks []Block
}

// Figure is a captioned figure (pandoc 3 makes one from an image with alt text
// standing alone in a paragraph). The optional short caption is kept as raw
// JSON.
type Figure struct {
	Attr         Attr
	ShortCaption json.RawMessage
	Caption      []Block
	Blocks       []Block
}

// LineBlock is a sequence of lines whose breaks are kept.
type LineBlock struct {
	Lines [][]Inline
}

// DefinitionList is a list of terms with their definitions.
type DefinitionList struct {
	Items []*DefinitionItem
}

// DefinitionItem is one term and its definitions. It is not a node: the walk
// visits its content with the DefinitionList as parent.
type DefinitionItem struct {
	Term        []Inline
	Definitions [][]Block
}

// Table is a pandoc table. Column specs and cell alignments are kept as raw
// JSON. Like DefinitionItem, sections, rows and cells are not nodes; their
// blocks are visited with the Table as parent.
type Table struct {
	Attr         Attr
	ShortCaption json.RawMessage
	Caption      []Block
	ColSpecs     json.RawMessage
	Head         TableSection
	Bodies       []TableBody
	Foot         TableSection
}

// TableSection is the head or the foot of a table.
type TableSection struct {
	Attr Attr
	Rows []Row
}

// TableBody is one body of a table with its intermediate head rows.
type TableBody struct {
	Attr           Attr
	RowHeadColumns int
	Head           []Row
	Rows           []Row
}

type Row struct {
	Attr  Attr
	Cells []Cell
}

// Cell is a table cell. Zero spans are written as 1.
type Cell struct {
	Attr      Attr
	Alignment json.RawMessage
	RowSpan   int
	ColSpan   int
	Blocks    []Block
}

// RawBlockElement is any block the package does not model.
type RawBlockElement struct {
	Tag     string
	Content json.RawMessage
}

// Str is a run of text without spaces.
type Str struct {
	Text string
}

// Space is an inter-word space.
type Space struct{}

// Image is an inline image. Inlines hold the alt text.
type Image struct {
	Attr    Attr
	Inlines []Inline
	URL     string
	Title   string
}

// Link is a hyperlink.
type Link struct {
	Attr    Attr
	Inlines []Inline
	URL     string
	Title   string
}

// Span is a generic inline container.
type Span struct {
	Attr    Attr
	Inlines []Inline
}

// Formatted covers the inline markup elements whose only content is a list of
// inlines (Emph, Strong, Underline, Strikeout, Superscript, Subscript, SmallCaps).
type Formatted struct {
	Tag     string
	Inlines []Inline
}

// Note is a footnote. Its content is block level.
type Note struct {
	Blocks []Block
}

// Quoted is quoted text. The quote type is kept as raw JSON.
type Quoted struct {
	QuoteType json.RawMessage
	Inlines   []Inline
}

// Cite is a citation. The citation records are kept as raw JSON; Inlines hold
// the rendered citation text.
type Cite struct {
	Citations json.RawMessage
	Inlines   []Inline
}

// RawInlineElement is any inline the package does not model.
type RawInlineElement struct {
	Tag     string
	Content json.RawMessage
}

func (*Plain) node()            {}
func (*Para) node()             {}
func (*Header) node()           {}
func (*Div) node()              {}
func (*BulletList) node()       {}
func (*OrderedList) node()      {}
func (*ListItem) node()         {}
func (*BlockQuote) node()       {}
func (*Figure) node()           {}
func (*LineBlock) node()        {}
func (*DefinitionList) node()   {}
func (*Table) node()            {}
func (*RawBlockElement) node()  {}
func (*Str) node()              {}
func (*Space) node()            {}
func (*Image) node()            {}
func (*Link) node()             {}
func (*Span) node()             {}
func (*Formatted) node()        {}
func (*Note) node()             {}
func (*Quoted) node()           {}
func (*Cite) node()             {}
func (*RawInlineElement) node() {}

func (*Plain) block()           {}
func (*Para) block()            {}
func (*Header) block()          {}
func (*Div) block()             {}
func (*BulletList) block()      {}
func (*OrderedList) block()     {}
func (*BlockQuote) block()      {}
func (*Figure) block()          {}
func (*LineBlock) block()       {}
func (*DefinitionList) block()  {}
func (*Table) block()           {}
func (*RawBlockElement) block() {}

func (*Str) inline()              {}
func (*Space) inline()            {}
func (*Image) inline()            {}
func (*Link) inline()             {}
func (*Span) inline()             {}
func (*Formatted) inline()        {}
func (*Note) inline()             {}
func (*Quoted) inline()           {}
func (*Cite) inline()             {}
func (*RawInlineElement) inline() {}

// NewDiv returns a Div carrying the given paragraph style.
func NewDiv(style string, blocks ...Block) *Div {
	d := &Div{Blocks: blocks}
	d.Attr.Set(CustomStyleKey, style)
	return d
}

// Text concatenates the visible text of inlines, rendering spaces as " ".
// Markup is flattened; footnotes and raw inlines contribute nothing.
func Text(inlines []Inline) string {
	var buf []byte
	for _, in := range inlines {
		switch v := in.(type) {
		case *Str:
			buf = append(buf, v.Text...)
		case *Space:
			buf = append(buf, ' ')
		case *Image:
			buf = append(buf, Text(v.Inlines)...)
		case *Link:
			buf = append(buf, Text(v.Inlines)...)
		case *Span:
			buf = append(buf, Text(v.Inlines)...)
		case *Formatted:
			buf = append(buf, Text(v.Inlines)...)
		case *Quoted:
			buf = append(buf, Text(v.Inlines)...)
		case *Cite:
			buf = append(buf, Text(v.Inlines)...)
		}
	}
	return string(buf)
}
