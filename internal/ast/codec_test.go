// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {
    "title": {"t": "MetaInlines", "c": [{"t": "Str", "c": "Report"}, {"t": "Space"}, {"t": "Str", "c": "One"}]},
    "heading-unnumbered": {"t": "MetaMap", "c": {"1": {"t": "MetaString", "c": "Appendix Title"}}}
  },
  "blocks": [
    {"t": "Header", "c": [1, ["intro", ["unnumbered"], [["lang", "en"]]], [{"t": "Str", "c": "Intro"}]]},
    {"t": "Para", "c": [{"t": "Image", "c": [["", [], []], [{"t": "Str", "c": "alt"}], ["diagram.svg", "fig:"]]}]},
    {"t": "BulletList", "c": [[{"t": "Plain", "c": [{"t": "Emph", "c": [{"t": "Str", "c": "a"}]}]}], [{"t": "Plain", "c": [{"t": "Str", "c": "b"}]}]]},
    {"t": "OrderedList", "c": [[3, {"t": "Decimal"}, {"t": "Period"}], [[{"t": "Para", "c": []}]]]},
    {"t": "HorizontalRule"},
    {"t": "CodeBlock", "c": [["", ["go"], []], "fmt.Println()"]}
  ]
}`

func decodeSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Decode(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	return doc
}

func TestDecode_Blocks(t *testing.T) {
	doc := decodeSample(t)

	require.Len(t, doc.Blocks, 6)
	assert.Equal(t, []int{1, 23, 1}, doc.APIVersion)

	h, ok := doc.Blocks[0].(*Header)
	require.True(t, ok, "block 0 is %T", doc.Blocks[0])
	assert.Equal(t, 1, h.Level)
	assert.Equal(t, "intro", h.Attr.ID)
	assert.True(t, h.Attr.HasClass("unnumbered"))
	v, ok := h.Attr.Get("lang")
	assert.True(t, ok)
	assert.Equal(t, "en", v)
	assert.Equal(t, "Intro", Text(h.Inlines))

	p, ok := doc.Blocks[1].(*Para)
	require.True(t, ok)
	require.Len(t, p.Inlines, 1)
	img, ok := p.Inlines[0].(*Image)
	require.True(t, ok)
	assert.Equal(t, "diagram.svg", img.URL)
	assert.Equal(t, "fig:", img.Title)

	bl, ok := doc.Blocks[2].(*BulletList)
	require.True(t, ok)
	require.Len(t, bl.Items, 2)
	plain, ok := bl.Items[0].Blocks[0].(*Plain)
	require.True(t, ok)
	emph, ok := plain.Inlines[0].(*Formatted)
	require.True(t, ok)
	assert.Equal(t, "Emph", emph.Tag)

	ol, ok := doc.Blocks[3].(*OrderedList)
	require.True(t, ok)
	assert.Len(t, ol.Items, 1)

	hr, ok := doc.Blocks[4].(*RawBlockElement)
	require.True(t, ok)
	assert.Equal(t, "HorizontalRule", hr.Tag)
	assert.Empty(t, hr.Content)

	code, ok := doc.Blocks[5].(*RawBlockElement)
	require.True(t, ok)
	assert.Equal(t, "CodeBlock", code.Tag)
}

func TestDecode_Meta(t *testing.T) {
	doc := decodeSample(t)

	title, ok := doc.Meta.LookupString("title")
	assert.True(t, ok)
	assert.Equal(t, "Report One", title)

	style, ok := doc.Meta.LookupString("heading-unnumbered.1")
	assert.True(t, ok)
	assert.Equal(t, "Appendix Title", style)
}

func TestEncode_RoundTrip(t *testing.T) {
	doc := decodeSample(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	var got, want any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NoError(t, json.Unmarshal([]byte(sampleJSON), &want))
	assert.Equal(t, want, got)
}

func TestEncode_EmptyCollectionsAreArrays(t *testing.T) {
	doc := &Document{
		Meta:   Meta{},
		Blocks: []Block{&Div{Blocks: []Block{&Para{}}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `{"t":"Div","c":[["",[],[]],[{"t":"Para","c":[]}]]}`)
	assert.NotContains(t, out, "null")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		unsupported bool
	}{
		{name: "not json", input: "{", unsupported: false},
		{name: "header without level", input: `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"Header","c":["x",["",[],[]],[]]}]}`, unsupported: true},
		{name: "str with array payload", input: `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Str","c":[]}]}]}`, unsupported: true},
		{name: "table cell without blocks", input: `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"Table","c":[["",[],[]],[null,[]],[],[["",[],[]],[]],[[["",[],[]],0,[],[[["",[],[]],[[["",[],[]],{"t":"AlignDefault"},1,1]]]]]],[["",[],[]],[]]]}]}`, unsupported: true},
		{name: "quoted without content", input: `{"pandoc-api-version":[1,23],"meta":{},"blocks":[{"t":"Para","c":[{"t":"Quoted","c":[{"t":"DoubleQuote"}]}]}]}`, unsupported: true},
		{name: "unknown metadata tag", input: `{"pandoc-api-version":[1,23],"meta":{"x":{"t":"MetaWhat","c":1}},"blocks":[]}`, unsupported: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, tt.unsupported, errors.Is(err, ErrUnsupportedElement))
		})
	}
}

const figureJSON = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {},
  "blocks": [
    {"t": "Figure", "c": [
      ["fig-flow", [], []],
      [null, [{"t": "Plain", "c": [{"t": "Str", "c": "Flow"}]}]],
      [{"t": "Plain", "c": [{"t": "Image", "c": [["", [], []], [{"t": "Str", "c": "Flow"}], ["flow.svg", ""]]}]}]
    ]}
  ]
}`

func TestFigure_RoundTrip(t *testing.T) {
	doc, err := Decode(strings.NewReader(figureJSON))
	require.NoError(t, err)

	require.Len(t, doc.Blocks, 1)
	f, ok := doc.Blocks[0].(*Figure)
	require.True(t, ok, "block 0 is %T", doc.Blocks[0])
	assert.Equal(t, "fig-flow", f.Attr.ID)
	require.Len(t, f.Caption, 1)
	assert.Equal(t, "Flow", Text(f.Caption[0].(*Plain).Inlines))
	require.Len(t, f.Blocks, 1)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	var got, want any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NoError(t, json.Unmarshal([]byte(figureJSON), &want))
	assert.Equal(t, want, got)
}

const containersJSON = `{
  "pandoc-api-version": [1, 23, 1],
  "meta": {},
  "blocks": [
    {"t": "Para", "c": [
      {"t": "Str", "c": "See"},
      {"t": "Note", "c": [{"t": "Para", "c": [{"t": "Image", "c": [["", [], []], [], ["note.svg", ""]]}]}]},
      {"t": "Quoted", "c": [{"t": "SingleQuote"}, [{"t": "Image", "c": [["", [], []], [], ["quoted.svg", ""]]}]]},
      {"t": "Cite", "c": [
        [{"citationId": "doe", "citationPrefix": [], "citationSuffix": [], "citationMode": {"t": "NormalCitation"}, "citationNoteNum": 1, "citationHash": 0}],
        [{"t": "Str", "c": "[@doe]"}]
      ]}
    ]},
    {"t": "LineBlock", "c": [[{"t": "Str", "c": "one"}], [{"t": "Image", "c": [["", [], []], [], ["line.svg", ""]]}]]},
    {"t": "DefinitionList", "c": [
      [[{"t": "Str", "c": "Term"}], [[{"t": "BulletList", "c": [[{"t": "Plain", "c": [{"t": "Str", "c": "meaning"}]}]]}]]]
    ]},
    {"t": "Table", "c": [
      ["tbl", [], []],
      [null, [{"t": "Plain", "c": [{"t": "Str", "c": "Results"}]}]],
      [[{"t": "AlignDefault"}, {"t": "ColWidthDefault"}]],
      [["", [], []], [[["", [], []], [[["", [], []], {"t": "AlignDefault"}, 1, 1, [{"t": "Plain", "c": [{"t": "Str", "c": "Head"}]}]]]]]],
      [[["", [], []], 0, [], [[["", [], []], [[["", [], []], {"t": "AlignCenter"}, 1, 2, [{"t": "Plain", "c": [{"t": "Image", "c": [["", [], []], [], ["cell.svg", ""]]}]}]]]]]]],
      [["", [], []], []]
    ]}
  ]
}`

func TestDecode_Containers(t *testing.T) {
	doc, err := Decode(strings.NewReader(containersJSON))
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 4)

	p := doc.Blocks[0].(*Para)
	require.Len(t, p.Inlines, 4)
	note, ok := p.Inlines[1].(*Note)
	require.True(t, ok, "inline 1 is %T", p.Inlines[1])
	require.Len(t, note.Blocks, 1)
	q, ok := p.Inlines[2].(*Quoted)
	require.True(t, ok)
	assert.JSONEq(t, `{"t":"SingleQuote"}`, string(q.QuoteType))
	cite, ok := p.Inlines[3].(*Cite)
	require.True(t, ok)
	assert.Equal(t, "[@doe]", Text(cite.Inlines))

	lb, ok := doc.Blocks[1].(*LineBlock)
	require.True(t, ok)
	assert.Len(t, lb.Lines, 2)

	dl, ok := doc.Blocks[2].(*DefinitionList)
	require.True(t, ok)
	require.Len(t, dl.Items, 1)
	assert.Equal(t, "Term", Text(dl.Items[0].Term))
	require.Len(t, dl.Items[0].Definitions, 1)
	_, isList := dl.Items[0].Definitions[0][0].(*BulletList)
	assert.True(t, isList)

	tbl, ok := doc.Blocks[3].(*Table)
	require.True(t, ok)
	assert.Equal(t, "tbl", tbl.Attr.ID)
	require.Len(t, tbl.Caption, 1)
	require.Len(t, tbl.Head.Rows, 1)
	require.Len(t, tbl.Bodies, 1)
	require.Len(t, tbl.Bodies[0].Rows, 1)
	cell := tbl.Bodies[0].Rows[0].Cells[0]
	assert.Equal(t, 1, cell.RowSpan)
	assert.Equal(t, 2, cell.ColSpan)
	assert.Empty(t, tbl.Foot.Rows)
}

func TestEncode_ContainersRoundTrip(t *testing.T) {
	doc, err := Decode(strings.NewReader(containersJSON))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))
	var got, want any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NoError(t, json.Unmarshal([]byte(containersJSON), &want))
	assert.Equal(t, want, got)
}

func TestEncode_BuiltTableDefaults(t *testing.T) {
	doc := &Document{Meta: Meta{}, Blocks: []Block{&Table{
		Bodies: []TableBody{{Rows: []Row{{Cells: []Cell{{Blocks: []Block{&Plain{}}}}}}}},
	}}}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, doc))

	out := buf.String()
	assert.Contains(t, out, `[["",[],[]],{"t":"AlignDefault"},1,1,[{"t":"Plain","c":[]}]]`)

	back, err := Decode(&buf)
	require.NoError(t, err)
	_, ok := back.Blocks[0].(*Table)
	assert.True(t, ok)
}
