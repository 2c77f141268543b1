// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrUnsupportedElement reports JSON whose shape does not match the element tag.
var ErrUnsupportedElement = errors.New("unsupported element")

// wireDocument is the top-level pandoc JSON object.
type wireDocument struct {
	APIVersion []int                      `json:"pandoc-api-version"`
	Meta       map[string]json.RawMessage `json:"meta"`
	Blocks     []json.RawMessage          `json:"blocks"`
}

// wireElement is a tagged element as read from JSON.
type wireElement struct {
	T string          `json:"t"`
	C json.RawMessage `json:"c,omitempty"`
}

// outElement is a tagged element ready to be written.
type outElement struct {
	T string `json:"t"`
	C any    `json:"c,omitempty"`
}

// Decode reads a pandoc JSON document. The returned document has an empty
// Format; callers set it from the filter arguments.
func Decode(r io.Reader) (*Document, error) {
	var wd wireDocument
	if err := json.NewDecoder(r).Decode(&wd); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	doc := &Document{
		APIVersion: wd.APIVersion,
		Meta:       make(Meta, len(wd.Meta)),
	}
	for k, raw := range wd.Meta {
		v, err := decodeMeta(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding metadata %q: %w", k, err)
		}
		doc.Meta[k] = v
	}

	blocks, err := decodeBlocks(wd.Blocks)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks
	return doc, nil
}

// Encode writes doc as pandoc JSON.
func Encode(w io.Writer, doc *Document) error {
	meta := make(map[string]any, len(doc.Meta))
	for k, v := range doc.Meta {
		out, err := encodeMeta(v)
		if err != nil {
			return fmt.Errorf("encoding metadata %q: %w", k, err)
		}
		meta[k] = out
	}
	blocks, err := encodeBlocks(doc.Blocks)
	if err != nil {
		return err
	}

	version := doc.APIVersion
	if version == nil {
		version = []int{}
	}
	out := struct {
		APIVersion []int          `json:"pandoc-api-version"`
		Meta       map[string]any `json:"meta"`
		Blocks     []any          `json:"blocks"`
	}{version, meta, blocks}

	if err := json.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// --- decoding ---

func unsupported(tag string, err error) error {
	if errors.Is(err, ErrUnsupportedElement) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrUnsupportedElement, tag, err)
}

func decodeBlocks(raws []json.RawMessage) ([]Block, error) {
	blocks := make([]Block, 0, len(raws))
	for _, raw := range raws {
		b, err := decodeBlock(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

func decodeBlockList(raw json.RawMessage) ([]Block, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	return decodeBlocks(raws)
}

func decodeItems(raw json.RawMessage) ([]*ListItem, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	items := make([]*ListItem, 0, len(raws))
	for _, r := range raws {
		blocks, err := decodeBlockList(r)
		if err != nil {
			return nil, err
		}
		items = append(items, &ListItem{Blocks: blocks})
	}
	return items, nil
}

func decodeBlock(raw json.RawMessage) (Block, error) {
	var el wireElement
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, fmt.Errorf("decoding block: %w", err)
	}

	switch el.T {
	case TagPlain, TagPara:
		inlines, err := decodeInlineList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		if el.T == TagPlain {
			return &Plain{Inlines: inlines}, nil
		}
		return &Para{Inlines: inlines}, nil

	case TagHeader:
		var parts [3]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		h := &Header{}
		if err := json.Unmarshal(parts[0], &h.Level); err != nil {
			return nil, unsupported(el.T, err)
		}
		attr, err := decodeAttr(parts[1])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		h.Attr = attr
		if h.Inlines, err = decodeInlineList(parts[2]); err != nil {
			return nil, unsupported(el.T, err)
		}
		return h, nil

	case TagDiv:
		var parts [2]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		blocks, err := decodeBlockList(parts[1])
		if err != nil {
			return nil, err
		}
		return &Div{Attr: attr, Blocks: blocks}, nil

	case TagBulletList:
		items, err := decodeItems(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return &BulletList{Items: items}, nil

	case TagOrderedList:
		var parts [2]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		items, err := decodeItems(parts[1])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return &OrderedList{ListAttributes: parts[0], Items: items}, nil

	case TagBlockQuote:
		blocks, err := decodeBlockList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return &BlockQuote{Blocks: blocks}, nil

	case TagFigure:
		var parts [3]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		var caption [2]json.RawMessage
		if err := json.Unmarshal(parts[1], &caption); err != nil {
			return nil, unsupported(el.T, err)
		}
		f := &Figure{Attr: attr, ShortCaption: caption[0]}
		if f.Caption, err = decodeBlockList(caption[1]); err != nil {
			return nil, err
		}
		if f.Blocks, err = decodeBlockList(parts[2]); err != nil {
			return nil, err
		}
		return f, nil

	case TagLineBlock:
		var raws []json.RawMessage
		if err := json.Unmarshal(el.C, &raws); err != nil {
			return nil, unsupported(el.T, err)
		}
		lb := &LineBlock{Lines: make([][]Inline, 0, len(raws))}
		for _, r := range raws {
			line, err := decodeInlineList(r)
			if err != nil {
				return nil, unsupported(el.T, err)
			}
			lb.Lines = append(lb.Lines, line)
		}
		return lb, nil

	case TagDefinitionList:
		var raws [][2]json.RawMessage
		if err := json.Unmarshal(el.C, &raws); err != nil {
			return nil, unsupported(el.T, err)
		}
		dl := &DefinitionList{Items: make([]*DefinitionItem, 0, len(raws))}
		for _, r := range raws {
			it, err := decodeDefinition(r)
			if err != nil {
				return nil, unsupported(el.T, err)
			}
			dl.Items = append(dl.Items, it)
		}
		return dl, nil

	case TagTable:
		t, err := decodeTable(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return t, nil
	}

	return &RawBlockElement{Tag: el.T, Content: el.C}, nil
}

func decodeDefinition(parts [2]json.RawMessage) (*DefinitionItem, error) {
	term, err := decodeInlineList(parts[0])
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(parts[1], &raws); err != nil {
		return nil, err
	}
	it := &DefinitionItem{Term: term, Definitions: make([][]Block, 0, len(raws))}
	for _, r := range raws {
		blocks, err := decodeBlockList(r)
		if err != nil {
			return nil, err
		}
		it.Definitions = append(it.Definitions, blocks)
	}
	return it, nil
}

// decodeTable reads [attr, [short, caption], colspecs, head, bodies, foot].
func decodeTable(raw json.RawMessage) (*Table, error) {
	var parts [6]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return nil, err
	}
	attr, err := decodeAttr(parts[0])
	if err != nil {
		return nil, err
	}
	var caption [2]json.RawMessage
	if err := json.Unmarshal(parts[1], &caption); err != nil {
		return nil, err
	}

	t := &Table{Attr: attr, ShortCaption: caption[0], ColSpecs: parts[2]}
	if t.Caption, err = decodeBlockList(caption[1]); err != nil {
		return nil, err
	}
	if t.Head, err = decodeTableSection(parts[3]); err != nil {
		return nil, err
	}
	var bodies []json.RawMessage
	if err := json.Unmarshal(parts[4], &bodies); err != nil {
		return nil, err
	}
	for _, b := range bodies {
		body, err := decodeTableBody(b)
		if err != nil {
			return nil, err
		}
		t.Bodies = append(t.Bodies, body)
	}
	if t.Foot, err = decodeTableSection(parts[5]); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeTableSection(raw json.RawMessage) (TableSection, error) {
	var parts [2]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return TableSection{}, err
	}
	attr, err := decodeAttr(parts[0])
	if err != nil {
		return TableSection{}, err
	}
	rows, err := decodeRows(parts[1])
	if err != nil {
		return TableSection{}, err
	}
	return TableSection{Attr: attr, Rows: rows}, nil
}

func decodeTableBody(raw json.RawMessage) (TableBody, error) {
	var parts [4]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return TableBody{}, err
	}
	var b TableBody
	var err error
	if b.Attr, err = decodeAttr(parts[0]); err != nil {
		return TableBody{}, err
	}
	if err := json.Unmarshal(parts[1], &b.RowHeadColumns); err != nil {
		return TableBody{}, err
	}
	if b.Head, err = decodeRows(parts[2]); err != nil {
		return TableBody{}, err
	}
	if b.Rows, err = decodeRows(parts[3]); err != nil {
		return TableBody{}, err
	}
	return b, nil
}

func decodeRows(raw json.RawMessage) ([]Row, error) {
	var raws [][2]json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(raws))
	for _, r := range raws {
		attr, err := decodeAttr(r[0])
		if err != nil {
			return nil, err
		}
		var cells []json.RawMessage
		if err := json.Unmarshal(r[1], &cells); err != nil {
			return nil, err
		}
		row := Row{Attr: attr, Cells: make([]Cell, 0, len(cells))}
		for _, c := range cells {
			cell, err := decodeCell(c)
			if err != nil {
				return nil, err
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// decodeCell reads [attr, alignment, rowspan, colspan, blocks].
func decodeCell(raw json.RawMessage) (Cell, error) {
	var parts [5]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return Cell{}, err
	}
	c := Cell{Alignment: parts[1]}
	var err error
	if c.Attr, err = decodeAttr(parts[0]); err != nil {
		return Cell{}, err
	}
	if err := json.Unmarshal(parts[2], &c.RowSpan); err != nil {
		return Cell{}, err
	}
	if err := json.Unmarshal(parts[3], &c.ColSpan); err != nil {
		return Cell{}, err
	}
	if c.Blocks, err = decodeBlockList(parts[4]); err != nil {
		return Cell{}, err
	}
	return c, nil
}

func decodeInlineList(raw json.RawMessage) ([]Inline, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(raw, &raws); err != nil {
		return nil, err
	}
	inlines := make([]Inline, 0, len(raws))
	for _, r := range raws {
		in, err := decodeInline(r)
		if err != nil {
			return nil, err
		}
		inlines = append(inlines, in)
	}
	return inlines, nil
}

func decodeInline(raw json.RawMessage) (Inline, error) {
	var el wireElement
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, fmt.Errorf("decoding inline: %w", err)
	}

	switch {
	case el.T == TagStr:
		s := &Str{}
		if err := json.Unmarshal(el.C, &s.Text); err != nil {
			return nil, unsupported(el.T, err)
		}
		return s, nil

	case el.T == TagSpace:
		return &Space{}, nil

	case el.T == TagImage || el.T == TagLink:
		var parts [3]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		inlines, err := decodeInlineList(parts[1])
		if err != nil {
			return nil, err
		}
		var target [2]string
		if err := json.Unmarshal(parts[2], &target); err != nil {
			return nil, unsupported(el.T, err)
		}
		if el.T == TagImage {
			return &Image{Attr: attr, Inlines: inlines, URL: target[0], Title: target[1]}, nil
		}
		return &Link{Attr: attr, Inlines: inlines, URL: target[0], Title: target[1]}, nil

	case el.T == TagSpan:
		var parts [2]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		attr, err := decodeAttr(parts[0])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		inlines, err := decodeInlineList(parts[1])
		if err != nil {
			return nil, err
		}
		return &Span{Attr: attr, Inlines: inlines}, nil

	case formattedTags[el.T]:
		inlines, err := decodeInlineList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return &Formatted{Tag: el.T, Inlines: inlines}, nil

	case el.T == TagNote:
		blocks, err := decodeBlockList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return &Note{Blocks: blocks}, nil

	case el.T == TagQuoted || el.T == TagCite:
		var parts [2]json.RawMessage
		if err := json.Unmarshal(el.C, &parts); err != nil {
			return nil, unsupported(el.T, err)
		}
		inlines, err := decodeInlineList(parts[1])
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		if el.T == TagQuoted {
			return &Quoted{QuoteType: parts[0], Inlines: inlines}, nil
		}
		return &Cite{Citations: parts[0], Inlines: inlines}, nil
	}

	return &RawInlineElement{Tag: el.T, Content: el.C}, nil
}

func decodeAttr(raw json.RawMessage) (Attr, error) {
	var parts [3]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return Attr{}, err
	}
	var a Attr
	if err := json.Unmarshal(parts[0], &a.ID); err != nil {
		return Attr{}, err
	}
	if err := json.Unmarshal(parts[1], &a.Classes); err != nil {
		return Attr{}, err
	}
	var kvs [][2]string
	if err := json.Unmarshal(parts[2], &kvs); err != nil {
		return Attr{}, err
	}
	for _, kv := range kvs {
		a.KVs = append(a.KVs, KV{Key: kv[0], Value: kv[1]})
	}
	return a, nil
}

func decodeMeta(raw json.RawMessage) (MetaValue, error) {
	var el wireElement
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, err
	}

	switch el.T {
	case "MetaString":
		var s string
		if err := json.Unmarshal(el.C, &s); err != nil {
			return nil, unsupported(el.T, err)
		}
		return MetaString(s), nil
	case "MetaBool":
		var b bool
		if err := json.Unmarshal(el.C, &b); err != nil {
			return nil, unsupported(el.T, err)
		}
		return MetaBool(b), nil
	case "MetaInlines":
		inlines, err := decodeInlineList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return MetaInlines(inlines), nil
	case "MetaBlocks":
		blocks, err := decodeBlockList(el.C)
		if err != nil {
			return nil, unsupported(el.T, err)
		}
		return MetaBlocks(blocks), nil
	case "MetaList":
		var raws []json.RawMessage
		if err := json.Unmarshal(el.C, &raws); err != nil {
			return nil, unsupported(el.T, err)
		}
		list := make(MetaList, 0, len(raws))
		for _, r := range raws {
			v, err := decodeMeta(r)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case "MetaMap":
		var raws map[string]json.RawMessage
		if err := json.Unmarshal(el.C, &raws); err != nil {
			return nil, unsupported(el.T, err)
		}
		m := make(MetaMap, len(raws))
		for k, r := range raws {
			v, err := decodeMeta(r)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: metadata tag %q", ErrUnsupportedElement, el.T)
}

// --- encoding ---

func rawElement(tag string, content json.RawMessage) outElement {
	if len(content) == 0 {
		return outElement{T: tag}
	}
	return outElement{T: tag, C: content}
}

func encodeBlocks(blocks []Block) ([]any, error) {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		el, err := encodeBlock(b)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func encodeItems(items []*ListItem) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, it := range items {
		blocks, err := encodeBlocks(it.Blocks)
		if err != nil {
			return nil, err
		}
		out = append(out, blocks)
	}
	return out, nil
}

func encodeBlock(b Block) (outElement, error) {
	switch v := b.(type) {
	case *Plain:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagPlain, C: inlines}, err
	case *Para:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagPara, C: inlines}, err
	case *Header:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagHeader, C: []any{v.Level, encodeAttr(v.Attr), inlines}}, err
	case *Div:
		blocks, err := encodeBlocks(v.Blocks)
		return outElement{T: TagDiv, C: []any{encodeAttr(v.Attr), blocks}}, err
	case *BulletList:
		items, err := encodeItems(v.Items)
		return outElement{T: TagBulletList, C: items}, err
	case *OrderedList:
		items, err := encodeItems(v.Items)
		var attrs any = v.ListAttributes
		if len(v.ListAttributes) == 0 {
			attrs = []any{1, outElement{T: "DefaultStyle"}, outElement{T: "DefaultDelim"}}
		}
		return outElement{T: TagOrderedList, C: []any{attrs, items}}, err
	case *BlockQuote:
		blocks, err := encodeBlocks(v.Blocks)
		return outElement{T: TagBlockQuote, C: blocks}, err
	case *Figure:
		caption, err := encodeBlocks(v.Caption)
		if err != nil {
			return outElement{}, err
		}
		blocks, err := encodeBlocks(v.Blocks)
		var short any = v.ShortCaption
		if len(v.ShortCaption) == 0 {
			short = nil
		}
		return outElement{T: TagFigure, C: []any{encodeAttr(v.Attr), []any{short, caption}, blocks}}, err
	case *LineBlock:
		lines := make([]any, 0, len(v.Lines))
		for _, l := range v.Lines {
			inlines, err := encodeInlines(l)
			if err != nil {
				return outElement{}, err
			}
			lines = append(lines, inlines)
		}
		return outElement{T: TagLineBlock, C: lines}, nil
	case *DefinitionList:
		items := make([]any, 0, len(v.Items))
		for _, it := range v.Items {
			term, err := encodeInlines(it.Term)
			if err != nil {
				return outElement{}, err
			}
			defs := make([]any, 0, len(it.Definitions))
			for _, d := range it.Definitions {
				blocks, err := encodeBlocks(d)
				if err != nil {
					return outElement{}, err
				}
				defs = append(defs, blocks)
			}
			items = append(items, []any{term, defs})
		}
		return outElement{T: TagDefinitionList, C: items}, nil
	case *Table:
		c, err := encodeTable(v)
		return outElement{T: TagTable, C: c}, err
	case *RawBlockElement:
		return rawElement(v.Tag, v.Content), nil
	}
	return outElement{}, fmt.Errorf("%w: block %T", ErrUnsupportedElement, b)
}

func encodeTable(t *Table) ([]any, error) {
	caption, err := encodeBlocks(t.Caption)
	if err != nil {
		return nil, err
	}
	head, err := encodeRows(t.Head.Rows)
	if err != nil {
		return nil, err
	}
	bodies := make([]any, 0, len(t.Bodies))
	for _, b := range t.Bodies {
		bh, err := encodeRows(b.Head)
		if err != nil {
			return nil, err
		}
		rows, err := encodeRows(b.Rows)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, []any{encodeAttr(b.Attr), b.RowHeadColumns, bh, rows})
	}
	foot, err := encodeRows(t.Foot.Rows)
	if err != nil {
		return nil, err
	}

	var short any = t.ShortCaption
	if len(t.ShortCaption) == 0 {
		short = nil
	}
	var specs any = t.ColSpecs
	if len(t.ColSpecs) == 0 {
		specs = []any{}
	}
	return []any{
		encodeAttr(t.Attr),
		[]any{short, caption},
		specs,
		[]any{encodeAttr(t.Head.Attr), head},
		bodies,
		[]any{encodeAttr(t.Foot.Attr), foot},
	}, nil
}

func encodeRows(rows []Row) ([]any, error) {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		cells := make([]any, 0, len(r.Cells))
		for _, c := range r.Cells {
			blocks, err := encodeBlocks(c.Blocks)
			if err != nil {
				return nil, err
			}
			var align any = c.Alignment
			if len(c.Alignment) == 0 {
				align = outElement{T: "AlignDefault"}
			}
			cells = append(cells, []any{encodeAttr(c.Attr), align, max(c.RowSpan, 1), max(c.ColSpan, 1), blocks})
		}
		out = append(out, []any{encodeAttr(r.Attr), cells})
	}
	return out, nil
}

func encodeInlines(inlines []Inline) ([]any, error) {
	out := make([]any, 0, len(inlines))
	for _, in := range inlines {
		el, err := encodeInline(in)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func encodeInline(in Inline) (outElement, error) {
	switch v := in.(type) {
	case *Str:
		return outElement{T: TagStr, C: v.Text}, nil
	case *Space:
		return outElement{T: TagSpace}, nil
	case *Image:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagImage, C: []any{encodeAttr(v.Attr), inlines, []string{v.URL, v.Title}}}, err
	case *Link:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagLink, C: []any{encodeAttr(v.Attr), inlines, []string{v.URL, v.Title}}}, err
	case *Span:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: TagSpan, C: []any{encodeAttr(v.Attr), inlines}}, err
	case *Formatted:
		inlines, err := encodeInlines(v.Inlines)
		return outElement{T: v.Tag, C: inlines}, err
	case *Note:
		blocks, err := encodeBlocks(v.Blocks)
		return outElement{T: TagNote, C: blocks}, err
	case *Quoted:
		inlines, err := encodeInlines(v.Inlines)
		var qt any = v.QuoteType
		if len(v.QuoteType) == 0 {
			qt = outElement{T: "DoubleQuote"}
		}
		return outElement{T: TagQuoted, C: []any{qt, inlines}}, err
	case *Cite:
		inlines, err := encodeInlines(v.Inlines)
		var cites any = v.Citations
		if len(v.Citations) == 0 {
			cites = []any{}
		}
		return outElement{T: TagCite, C: []any{cites, inlines}}, err
	case *RawInlineElement:
		return rawElement(v.Tag, v.Content), nil
	}
	return outElement{}, fmt.Errorf("%w: inline %T", ErrUnsupportedElement, in)
}

func encodeAttr(a Attr) []any {
	classes := a.Classes
	if classes == nil {
		classes = []string{}
	}
	kvs := make([][2]string, 0, len(a.KVs))
	for _, kv := range a.KVs {
		kvs = append(kvs, [2]string{kv.Key, kv.Value})
	}
	return []any{a.ID, classes, kvs}
}

func encodeMeta(v MetaValue) (outElement, error) {
	switch t := v.(type) {
	case MetaString:
		return outElement{T: "MetaString", C: string(t)}, nil
	case MetaBool:
		return outElement{T: "MetaBool", C: bool(t)}, nil
	case MetaInlines:
		inlines, err := encodeInlines(t)
		return outElement{T: "MetaInlines", C: inlines}, err
	case MetaBlocks:
		blocks, err := encodeBlocks(t)
		return outElement{T: "MetaBlocks", C: blocks}, err
	case MetaList:
		list := make([]any, 0, len(t))
		for _, item := range t {
			el, err := encodeMeta(item)
			if err != nil {
				return outElement{}, err
			}
			list = append(list, el)
		}
		return outElement{T: "MetaList", C: list}, nil
	case MetaMap:
		m := make(map[string]any, len(t))
		for k, item := range t {
			el, err := encodeMeta(item)
			if err != nil {
				return outElement{}, err
			}
			m[k] = el
		}
		return outElement{T: "MetaMap", C: m}, nil
	}
	return outElement{}, fmt.Errorf("%w: metadata %T", ErrUnsupportedElement, v)
}
