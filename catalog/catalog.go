// Package catalog loads edikit message definitions from YAML catalogues
// and keeps a Registry in sync with them.
//
// A catalogue declares code tables, composites, segments, reusable groups
// and message types by name. Load accepts a single file or a directory of
// *.yaml / *.yml files; Watch reloads the catalogue into a Registry when the
// files change.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/rules"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnresolved reports a reference to an undeclared table, composite,
	// segment or group.
	ErrUnresolved = errors.New("catalog: unresolved reference")
	// ErrDuplicate reports a name declared twice across the loaded files.
	ErrDuplicate = errors.New("catalog: duplicate declaration")
)

// Catalog is a resolved catalogue. Definitions are shared: a segment
// declared once is the same *SegmentDef in every message that uses it.
type Catalog struct {
	Tables     map[string]*edikit.CodeTable
	Composites map[string]*edikit.CompositeDef
	Segments   map[string]*edikit.SegmentDef
	Messages   map[string]*edikit.MessageDef
	// Rules holds the cross-field rules declared per message type.
	Rules map[string][]rules.Rule
	// Sources lists the files the catalogue was read from.
	Sources []string
}

// Types lists the message types in sorted order.
func (c *Catalog) Types() []string {
	out := make([]string, 0, len(c.Messages))
	for t := range c.Messages {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Definitions returns the message definitions ordered by type.
func (c *Catalog) Definitions() []*edikit.MessageDef {
	out := make([]*edikit.MessageDef, 0, len(c.Messages))
	for _, t := range c.Types() {
		out = append(out, c.Messages[t])
	}
	return out
}

// Install replaces the registry contents with the catalogue's messages.
func (c *Catalog) Install(reg *edikit.Registry) error {
	return reg.Replace(c.Definitions()...)
}

// Check runs the rules declared for msg.Type. Types without rules pass.
func (c *Catalog) Check(msg *edikit.Message) error {
	if msg == nil {
		return rules.Check(nil, nil)
	}
	def, ok := c.Messages[msg.Type]
	if !ok {
		it := edikit.IssueAt(edikit.RootPath(), edikit.CodeUnknownMessageType, msg.Type)
		it.Fragment = msg.Type
		return edikit.Issues{it}
	}
	return rules.Check(def, msg, c.Rules[msg.Type]...)
}

// Parse reads a catalogue from YAML bytes. The data may hold several
// documents.
func Parse(data []byte) (*Catalog, error) {
	l := newLoader()
	if err := l.decode(bytes.NewReader(data), "<bytes>"); err != nil {
		return nil, err
	}
	return l.build()
}

// Load reads a catalogue from a file or from every YAML file below a
// directory. Files whose name starts with a dot are skipped.
func Load(path string) (*Catalog, error) {
	files, err := catalogFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("catalog: no YAML files in %s", path)
	}
	l := newLoader()
	for _, f := range files {
		if err := l.readFile(f); err != nil {
			return nil, err
		}
	}
	c, err := l.build()
	if err != nil {
		return nil, err
	}
	c.Sources = files
	return c, nil
}

func catalogFiles(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	if !fi.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isCatalogFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func isCatalogFile(p string) bool {
	base := filepath.Base(p)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// loader accumulates raw declarations from every document before any
// reference is resolved, so declaration order across files is irrelevant.
type loader struct {
	tables     map[string]tableSpec
	composites map[string][]componentSpec
	segments   map[string]segmentSpec
	groups     map[string]groupSpec
	messages   map[string]messageSpec
	origin     map[string]string
}

func newLoader() *loader {
	return &loader{
		tables:     map[string]tableSpec{},
		composites: map[string][]componentSpec{},
		segments:   map[string]segmentSpec{},
		groups:     map[string]groupSpec{},
		messages:   map[string]messageSpec{},
		origin:     map[string]string{},
	}
}

func (l *loader) readFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	defer f.Close()
	return l.decode(f, path)
}

func (l *loader) decode(r io.Reader, src string) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	for {
		var doc fileSpec
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("catalog: %s: %w", src, err)
		}
		if err := l.add(src, doc); err != nil {
			return err
		}
	}
}

func (l *loader) claim(kind, name, src string) error {
	key := kind + " " + name
	if prev, dup := l.origin[key]; dup {
		return fmt.Errorf("%w: %s %q in %s (first in %s)", ErrDuplicate, kind, name, src, prev)
	}
	l.origin[key] = src
	return nil
}

func (l *loader) add(src string, doc fileSpec) error {
	for name, t := range doc.Tables {
		if err := l.claim("table", name, src); err != nil {
			return err
		}
		l.tables[name] = t
	}
	for name, c := range doc.Composites {
		if err := l.claim("composite", name, src); err != nil {
			return err
		}
		l.composites[name] = c
	}
	for name, s := range doc.Segments {
		if err := l.claim("segment", name, src); err != nil {
			return err
		}
		l.segments[name] = s
	}
	for name, g := range doc.Groups {
		if err := l.claim("group", name, src); err != nil {
			return err
		}
		l.groups[name] = g
	}
	for name, m := range doc.Messages {
		if err := l.claim("message", name, src); err != nil {
			return err
		}
		l.messages[name] = m
	}
	return nil
}
