package catalog

import (
	"fmt"
	"sort"
	"unicode/utf8"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/rules"
)

// build resolves every declaration. Tables, composites and segments are
// built once and shared; groups are rebuilt per use since inline groups
// may share a name with nothing else.
func (l *loader) build() (*Catalog, error) {
	c := &Catalog{
		Tables:     make(map[string]*edikit.CodeTable, len(l.tables)),
		Composites: make(map[string]*edikit.CompositeDef, len(l.composites)),
		Segments:   make(map[string]*edikit.SegmentDef, len(l.segments)),
		Messages:   make(map[string]*edikit.MessageDef, len(l.messages)),
		Rules:      map[string][]rules.Rule{},
	}
	for name, t := range l.tables {
		c.Tables[name] = edikit.NewCodeTable(name, t.Codes, t.Pad)
	}
	for _, name := range sortedKeys(l.composites) {
		cd, err := c.composite(name, l.composites[name])
		if err != nil {
			return nil, err
		}
		c.Composites[name] = cd
	}
	for _, tag := range sortedKeys(l.segments) {
		sd, err := c.segment(tag, l.segments[tag])
		if err != nil {
			return nil, err
		}
		c.Segments[tag] = sd
	}
	for _, typ := range sortedKeys(l.messages) {
		ms := l.messages[typ]
		r := &groupResolver{c: c, groups: l.groups, active: map[string]bool{}}
		members, err := r.members(ms.Members, "message "+typ)
		if err != nil {
			return nil, err
		}
		def := &edikit.MessageDef{Type: typ, Root: &edikit.GroupDef{Members: members}}
		if ms.Delimiters != nil {
			d, err := ms.Delimiters.resolve()
			if err != nil {
				return nil, fmt.Errorf("catalog: message %s: %w", typ, err)
			}
			def.Delimiters = d
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: message %s: %w", typ, err)
		}
		c.Messages[typ] = def
		if len(ms.Rules) > 0 {
			rs, err := buildRules(ms.Rules, "message "+typ)
			if err != nil {
				return nil, err
			}
			c.Rules[typ] = rs
		}
	}
	return c, nil
}

func (c *Catalog) component(s componentSpec, where string) (edikit.ComponentDef, error) {
	cd := edikit.ComponentDef{Name: s.Name, Required: s.Required, Numeric: s.Numeric, MaxLen: s.MaxLen}
	if s.Code != "" {
		t, ok := c.Tables[s.Code]
		if !ok {
			return cd, fmt.Errorf("%w: %s: table %q", ErrUnresolved, where, s.Code)
		}
		cd.Table = t
	}
	return cd, nil
}

func (c *Catalog) composite(name string, comps []componentSpec) (*edikit.CompositeDef, error) {
	cd := &edikit.CompositeDef{Name: name, Components: make([]edikit.ComponentDef, len(comps))}
	for i, s := range comps {
		comp, err := c.component(s, "composite "+name)
		if err != nil {
			return nil, err
		}
		cd.Components[i] = comp
	}
	return cd, nil
}

func (c *Catalog) segment(tag string, s segmentSpec) (*edikit.SegmentDef, error) {
	sd := &edikit.SegmentDef{Tag: tag, Name: s.Name, Fields: make([]edikit.FieldDef, len(s.Fields))}
	for i, fs := range s.Fields {
		where := fmt.Sprintf("segment %s field %q", tag, fs.Name)
		fd := edikit.FieldDef{Name: fs.Name, Card: edikit.Optional, Max: fs.Max}
		if fs.Card != "" {
			card, err := edikit.ParseCardinality(fs.Card)
			if err != nil {
				return nil, fmt.Errorf("catalog: %s: %w", where, err)
			}
			fd.Card = card
		}
		if fs.Composite != "" {
			cd, ok := c.Composites[fs.Composite]
			if !ok {
				return nil, fmt.Errorf("%w: %s: composite %q", ErrUnresolved, where, fs.Composite)
			}
			fd.Composite = cd
		} else {
			spec := fs.componentSpec
			if spec.Name == "" {
				spec.Name = fs.Name
			}
			comp, err := c.component(spec, where)
			if err != nil {
				return nil, err
			}
			fd.Component = &comp
		}
		sd.Fields[i] = fd
	}
	return sd, nil
}

type groupResolver struct {
	c      *Catalog
	groups map[string]groupSpec
	active map[string]bool
}

func (r *groupResolver) members(specs []memberSpec, where string) ([]edikit.MemberDef, error) {
	out := make([]edikit.MemberDef, 0, len(specs))
	for _, ms := range specs {
		md := edikit.MemberDef{Name: ms.Name, Max: ms.Max}
		card, err := edikit.ParseCardinality(ms.Card)
		if err != nil {
			return nil, fmt.Errorf("catalog: %s: %w", where, err)
		}
		md.Card = card
		switch {
		case ms.Segment != "" && ms.Group != "":
			return nil, fmt.Errorf("catalog: %s: member names both segment %q and group %q", where, ms.Segment, ms.Group)
		case ms.Segment != "":
			sd, ok := r.c.Segments[ms.Segment]
			if !ok {
				return nil, fmt.Errorf("%w: %s: segment %q", ErrUnresolved, where, ms.Segment)
			}
			md.Segment = sd
		case ms.Group != "":
			g, err := r.group(ms, where)
			if err != nil {
				return nil, err
			}
			md.Group = g
		default:
			return nil, fmt.Errorf("catalog: %s: member names neither a segment nor a group", where)
		}
		out = append(out, md)
	}
	return out, nil
}

func (r *groupResolver) group(ms memberSpec, where string) (*edikit.GroupDef, error) {
	body := ms.Members
	if len(body) == 0 {
		gs, ok := r.groups[ms.Group]
		if !ok {
			return nil, fmt.Errorf("%w: %s: group %q", ErrUnresolved, where, ms.Group)
		}
		if r.active[ms.Group] {
			return nil, fmt.Errorf("catalog: %s: group %q contains itself", where, ms.Group)
		}
		r.active[ms.Group] = true
		defer delete(r.active, ms.Group)
		body = gs.Members
	}
	members, err := r.members(body, where+" group "+ms.Group)
	if err != nil {
		return nil, err
	}
	return &edikit.GroupDef{Name: ms.Group, Members: members}, nil
}

func (d *delimSpec) resolve() (edikit.Delimiters, error) {
	def := edikit.DefaultDelimiters()
	one := func(s string, fallback rune, what string) (rune, error) {
		if s == "" {
			return fallback, nil
		}
		r, n := utf8.DecodeRuneInString(s)
		if n != len(s) {
			return 0, fmt.Errorf("%s delimiter %q must be a single character", what, s)
		}
		return r, nil
	}
	var out edikit.Delimiters
	var err error
	if out.Component, err = one(d.Component, def.Component, "component"); err != nil {
		return out, err
	}
	if out.Element, err = one(d.Element, def.Element, "element"); err != nil {
		return out, err
	}
	if out.Segment, err = one(d.Segment, def.Segment, "segment"); err != nil {
		return out, err
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
