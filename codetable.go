package edikit

import (
	"sort"
	"strings"
)

// DefaultPad is the padding cutset stripped from code tokens before lookup.
const DefaultPad = " "

// CodeTable is the value space of a coded component. Keys are stored in
// cleaned form; Resolve applies the same cleaning to incoming tokens, so
// "  9" and "9" resolve to the same key. This normalization is lossy by
// design of the wire format: the canonical key is what Format emits.
type CodeTable struct {
	name    string
	pad     string
	entries map[string]string
	keys    []string
}

// NewCodeTable builds a table from key -> label entries. pad is the cutset
// stripped from both ends of tokens; empty selects DefaultPad.
func NewCodeTable(name string, entries map[string]string, pad string) *CodeTable {
	if pad == "" {
		pad = DefaultPad
	}
	t := &CodeTable{name: name, pad: pad, entries: make(map[string]string, len(entries))}
	for k, v := range entries {
		ck := t.Clean(k)
		if _, dup := t.entries[ck]; !dup {
			t.keys = append(t.keys, ck)
		}
		t.entries[ck] = v
	}
	sort.Strings(t.keys)
	return t
}

// Name returns the table name used in issues.
func (t *CodeTable) Name() string { return t.name }

// Pad returns the padding cutset.
func (t *CodeTable) Pad() string { return t.pad }

// Clean strips padding and upper-cases tok.
func (t *CodeTable) Clean(tok string) string {
	return strings.ToUpper(strings.Trim(tok, t.pad))
}

// Resolve cleans tok and returns the canonical key.
func (t *CodeTable) Resolve(tok string) (string, bool) {
	k := t.Clean(tok)
	if k == "" {
		return "", false
	}
	_, ok := t.entries[k]
	return k, ok
}

// Label returns the description attached to key.
func (t *CodeTable) Label(key string) string { return t.entries[key] }

// Keys returns the canonical keys in sorted order.
func (t *CodeTable) Keys() []string { return append([]string(nil), t.keys...) }

// Len is the number of codes.
func (t *CodeTable) Len() int { return len(t.keys) }
