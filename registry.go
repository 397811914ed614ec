package edikit

import (
	"sort"
	"strings"
	"sync"

	eng "github.com/reoring/edikit/internal/engine"
)

// Registry maps message types to their definitions. It is the registration
// point for explicit schemas built with dsl or loaded from a catalogue.
// Definitions are immutable once registered; Replace swaps the whole set
// so that concurrent readers see either the old or the new catalogue.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*MessageDef
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: map[string]*MessageDef{}}
}

// Register validates def and adds it, replacing any definition of the same
// type.
func (r *Registry) Register(def *MessageDef) error {
	if def == nil {
		return singleIssue(RootPath().Issue(CodeInvalidSchema, "nil message definition"))
	}
	if err := def.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	r.types[def.Type] = def
	r.mu.Unlock()
	return nil
}

// MustRegister is Register that panics on an invalid definition. Intended
// for package-level catalogues built in code.
func (r *Registry) MustRegister(defs ...*MessageDef) *Registry {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Replace validates every definition and atomically swaps the registered
// set. Nothing is changed when any definition is invalid.
func (r *Registry) Replace(defs ...*MessageDef) error {
	next := make(map[string]*MessageDef, len(defs))
	var iss Issues
	for _, d := range defs {
		if d == nil {
			continue
		}
		if err := d.Validate(); err != nil {
			if ii, ok := AsIssues(err); ok {
				for _, it := range ii {
					it.Path = strings.TrimSuffix("/"+d.Type+it.Path, "/")
					iss = append(iss, it)
				}
				continue
			}
			return err
		}
		next[d.Type] = d
	}
	if len(iss) > 0 {
		return iss
	}
	r.mu.Lock()
	r.types = next
	r.mu.Unlock()
	return nil
}

// Lookup returns the definition registered for typ.
func (r *Registry) Lookup(typ string) (*MessageDef, bool) {
	r.mu.RLock()
	d, ok := r.types[typ]
	r.mu.RUnlock()
	return d, ok
}

// Types lists registered message types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.types))
	for t := range r.types {
		out = append(out, t)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (r *Registry) lookupOrIssue(typ string) (*MessageDef, error) {
	d, ok := r.Lookup(typ)
	if !ok {
		it := IssueAt(RootPath(), CodeUnknownMessageType, typ)
		it.Fragment = typ
		return nil, singleIssue(it)
	}
	return d, nil
}

// Parse parses text as message type typ. An empty typ detects the type
// from the UNH header.
func (r *Registry) Parse(typ, text string, opts ...ParseOpt) (*Message, error) {
	if typ == "" {
		typ, _ = r.Detect(text, opts...)
	}
	d, err := r.lookupOrIssue(typ)
	if err != nil {
		return nil, err
	}
	return Parse(d, text, opts...)
}

// Format renders msg using the definition registered for msg.Type.
func (r *Registry) Format(msg *Message, opts ...FormatOpt) (string, error) {
	if msg == nil {
		return "", shapeIssue(RootPath(), "nil message")
	}
	d, err := r.lookupOrIssue(msg.Type)
	if err != nil {
		return "", err
	}
	return Format(d, msg, opts...)
}

// Detect reads the message type from the UNH header: the first component
// of its second element (UNH+ref+ORDERS:D:96A:UN). It honors a leading UNA
// the same way Parse does.
func (r *Registry) Detect(text string, opts ...ParseOpt) (string, bool) {
	opt := lastOpt(opts)
	d := DefaultDelimiters()
	if !opt.IgnoreUNA {
		if ud, rest, ok := eng.ReadUNA(text); ok {
			d, text = fromEngineDelims(ud), rest
		}
	}
	if !opt.Delimiters.IsZero() {
		d = opt.Delimiters
	}
	ed := toEngineDelims(d)
	for _, l := range eng.SplitLines(text, ed) {
		tag, toks := eng.SplitElements(l.Text, ed)
		if tag != "UNH" {
			continue
		}
		if len(toks) < 2 {
			return "", false
		}
		typ := eng.SplitComponents(toks[1], ed)[0]
		return typ, typ != ""
	}
	return "", false
}
