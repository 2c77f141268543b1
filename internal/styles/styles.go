// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package styles resolves the named word-processor styles the filters attach
// to rewritten nodes.
//
// Resolution order is: an explicit custom-style on the node, then the document
// metadata key for the construct, then the configured fallback table, then the
// built-in name. Whatever is resolved from the fallbacks is written back into
// the document metadata so every later lookup in the same document agrees.
package styles

import (
	"fmt"
	"sort"
)

// Kind identifies the construct a style is resolved for.
type Kind string

const (
	// KindHeadingUnnumbered is keyed by heading level (1-4).
	KindHeadingUnnumbered Kind = "heading-unnumbered"

	// KindImage has a single key.
	KindImage Kind = "image-div-style"

	// KindBullet is keyed by depth bucket (0-based).
	KindBullet Kind = "bullet-style"
)

// Config is a document-scoped key-value store with a fill-missing-and-persist
// contract: a miss stores compute() under key and returns it.
// ast.Meta implements it.
type Config interface {
	GetOrSetDefault(key string, compute func() string) string
}

// Resolver computes style names. The zero value uses only built-in defaults.
type Resolver struct {
	// Defaults overrides the built-in names, keyed by metadata key
	// (e.g. "bullet-style.2").
	Defaults map[string]string
}

// NewResolver returns a Resolver with the given fallback table.
func NewResolver(defaults map[string]string) *Resolver {
	return &Resolver{Defaults: defaults}
}

// Resolve returns the style for kind and key. A non-empty override is returned
// unchanged. Resolve never fails.
func (r *Resolver) Resolve(cfg Config, kind Kind, key int, override string) string {
	if override != "" {
		return override
	}
	metaKey := Key(kind, key)
	return cfg.GetOrSetDefault(metaKey, func() string {
		if r != nil {
			if v := r.Defaults[metaKey]; v != "" {
				return v
			}
		}
		return BuiltinName(kind, key)
	})
}

// Key returns the metadata key consulted for kind and key.
func Key(kind Kind, key int) string {
	switch kind {
	case KindHeadingUnnumbered:
		return fmt.Sprintf("%s.%d", kind, key)
	case KindBullet:
		return fmt.Sprintf("%s.%d", kind, key+1)
	}
	return string(kind)
}

// BuiltinName is the style used when neither the document nor the
// configuration names one.
func BuiltinName(kind Kind, key int) string {
	switch kind {
	case KindHeadingUnnumbered:
		return fmt.Sprintf("Heading Unnumbered %d", key)
	case KindBullet:
		return fmt.Sprintf("Bullet List %d", key+1)
	case KindImage:
		return "Image Caption"
	}
	return string(kind)
}

// Entry is one row of the style table.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Style string `json:"style" yaml:"style"`
}

// Table resolves every key the filters can consult, for heading levels 1-4 and
// bullet buckets 0..maxDepth, against cfg.
func (r *Resolver) Table(cfg Config, maxDepth int) []Entry {
	var entries []Entry
	for level := 1; level <= 4; level++ {
		entries = append(entries, Entry{
			Key:   Key(KindHeadingUnnumbered, level),
			Style: r.Resolve(cfg, KindHeadingUnnumbered, level, ""),
		})
	}
	entries = append(entries, Entry{
		Key:   Key(KindImage, 0),
		Style: r.Resolve(cfg, KindImage, 0, ""),
	})
	for bucket := 0; bucket <= maxDepth; bucket++ {
		entries = append(entries, Entry{
			Key:   Key(KindBullet, bucket),
			Style: r.Resolve(cfg, KindBullet, bucket, ""),
		})
	}
	return entries
}

// MapConfig is a Config over a plain map, for callers without a document.
type MapConfig map[string]string

// GetOrSetDefault implements Config.
func (m MapConfig) GetOrSetDefault(key string, compute func() string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	v := compute()
	m[key] = v
	return v
}

// Keys returns the map keys in sorted order.
func (m MapConfig) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
