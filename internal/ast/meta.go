// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

import "strings"

// MetaValue is a document metadata value.
type MetaValue interface {
	meta()
}

// Meta is the document metadata map.
type Meta map[string]MetaValue

// MetaString is a plain string value (set from the command line or by filters).
type MetaString string

// MetaBool is a boolean value.
type MetaBool bool

// MetaMap is a nested mapping.
type MetaMap map[string]MetaValue

// MetaList is a list of values.
type MetaList []MetaValue

// MetaInlines is inline content; YAML scalars in a document header decode to this.
type MetaInlines []Inline

// MetaBlocks is block content.
type MetaBlocks []Block

func (MetaString) meta()  {}
func (MetaBool) meta()    {}
func (MetaMap) meta()     {}
func (MetaList) meta()    {}
func (MetaInlines) meta() {}
func (MetaBlocks) meta()  {}

// Lookup returns the value at key. A key stored literally wins; otherwise the
// key is split on "." and each segment descends into a nested MetaMap, so
// "heading-unnumbered.1" finds {heading-unnumbered: {1: ...}}.
func (m Meta) Lookup(key string) (MetaValue, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	parts := strings.Split(key, ".")
	var cur map[string]MetaValue = m
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(MetaMap)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// LookupString returns the string form of the value at key. Values that have
// no sensible string form (maps, lists) report false.
func (m Meta) LookupString(key string) (string, bool) {
	v, ok := m.Lookup(key)
	if !ok {
		return "", false
	}
	return Stringify(v)
}

// SetPath stores v at the dotted key, creating intermediate maps. It reports
// false and leaves m unchanged when a segment is occupied by a non-map value.
func (m Meta) SetPath(key string, v MetaValue) bool {
	parts := strings.Split(key, ".")
	var cur map[string]MetaValue = m
	for _, p := range parts[:len(parts)-1] {
		existing, ok := cur[p]
		if !ok {
			next := MetaMap{}
			cur[p] = next
			cur = next
			continue
		}
		next, ok := existing.(MetaMap)
		if !ok {
			return false
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
	return true
}

// GetOrSetDefault returns the string at key. On a miss it stores compute() as a
// MetaString at that key so later lookups in the same document, and the
// serialized metadata, see the same value.
func (m Meta) GetOrSetDefault(key string, compute func() string) string {
	if s, ok := m.LookupString(key); ok && s != "" {
		return s
	}
	def := compute()
	m.SetPath(key, MetaString(def))
	return def
}

// Stringify renders scalar-like metadata as a string.
func Stringify(v MetaValue) (string, bool) {
	switch t := v.(type) {
	case MetaString:
		return string(t), true
	case MetaInlines:
		return Text(t), true
	case MetaBool:
		if t {
			return "true", true
		}
		return "false", true
	case MetaBlocks:
		var parts []string
		for _, b := range t {
			switch bb := b.(type) {
			case *Plain:
				parts = append(parts, Text(bb.Inlines))
			case *Para:
				parts = append(parts, Text(bb.Inlines))
			}
		}
		return strings.Join(parts, "\n"), true
	}
	return "", false
}
