// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ast

// CustomStyleKey is the attribute pandoc's docx writer reads to apply a named
// paragraph or character style.
const CustomStyleKey = "custom-style"

// KV is one key-value attribute pair.
type KV struct {
	Key   string
	Value string
}

// Attr is pandoc's (identifier, classes, key-values) attribute triple.
type Attr struct {
	ID      string
	Classes []string
	KVs     []KV
}

// HasClass reports whether c is one of the classes.
func (a *Attr) HasClass(c string) bool {
	for _, cl := range a.Classes {
		if cl == c {
			return true
		}
	}
	return false
}

// Get returns the value for key.
func (a *Attr) Get(key string) (string, bool) {
	for _, kv := range a.KVs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Set replaces the value for key, appending it if absent.
func (a *Attr) Set(key, value string) {
	for i, kv := range a.KVs {
		if kv.Key == key {
			a.KVs[i].Value = value
			return
		}
	}
	a.KVs = append(a.KVs, KV{Key: key, Value: value})
}

// Delete removes key. It is a no-op when the key is absent.
func (a *Attr) Delete(key string) {
	for i, kv := range a.KVs {
		if kv.Key == key {
			a.KVs = append(a.KVs[:i:i], a.KVs[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so the result can be modified without touching a.
func (a Attr) Clone() Attr {
	c := Attr{ID: a.ID}
	if a.Classes != nil {
		c.Classes = append([]string(nil), a.Classes...)
	}
	if a.KVs != nil {
		c.KVs = append([]KV(nil), a.KVs...)
	}
	return c
}

// CustomStyle returns the explicit custom-style value, or "" when unset.
func (a *Attr) CustomStyle() string {
	v, _ := a.Get(CustomStyleKey)
	return v
}
