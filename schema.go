package edikit

import (
	"fmt"
	"strconv"
)

// ComponentDef describes a leaf scalar. A component is coded when Table is
// set, numeric when Numeric is set, and free text otherwise.
type ComponentDef struct {
	Name     string
	Required bool // Only meaningful inside a composite.
	Table    *CodeTable
	Numeric  bool
	MaxLen   int // 0 = unlimited.
}

// expectedKind describes the accepted value space for issues.
func (c *ComponentDef) expectedKind() string {
	switch {
	case c.Table != nil:
		return "code:" + c.Table.Name()
	case c.Numeric && c.MaxLen > 0:
		return "n.." + strconv.Itoa(c.MaxLen)
	case c.Numeric:
		return "numeric"
	case c.MaxLen > 0:
		return "an.." + strconv.Itoa(c.MaxLen)
	default:
		return "text"
	}
}

// CompositeDef is an ordered, fixed-length list of components joined by the
// component delimiter.
type CompositeDef struct {
	Name       string
	Components []ComponentDef
}

// FieldDef is one element position of a segment. Exactly one of Component
// and Composite is set. Card One is mandatory, Optional may be absent, and
// ZeroOrMore/OneOrMore make a list field spanning up to Max consecutive
// element positions (0 = to the end of the line).
type FieldDef struct {
	Name      string
	Card      Cardinality
	Max       int
	Component *ComponentDef
	Composite *CompositeDef
}

// SegmentDef is a tagged record rendered as one line.
type SegmentDef struct {
	Tag    string
	Name   string
	Fields []FieldDef
}

// MemberDef is one member of a segment group: a segment or a nested group.
// Max bounds repetitions (0 = unbounded).
type MemberDef struct {
	Name    string
	Card    Cardinality
	Max     int
	Segment *SegmentDef
	Group   *GroupDef
}

// AnchorTag is the tag whose presence signals this member.
func (m *MemberDef) AnchorTag() string {
	if m.Segment != nil {
		return m.Segment.Tag
	}
	if m.Group != nil {
		return m.Group.AnchorTag()
	}
	return ""
}

// Label is the member's name, falling back to its anchor tag.
func (m *MemberDef) Label() string {
	if m.Name != "" {
		return m.Name
	}
	if m.Group != nil && m.Group.Name != "" {
		return m.Group.Name
	}
	return m.AnchorTag()
}

// GroupDef is an ordered list of members; the first member is the anchor.
type GroupDef struct {
	Name    string
	Members []MemberDef
}

// AnchorTag resolves the tag of the first member, descending into nested
// groups.
func (g *GroupDef) AnchorTag() string {
	if g == nil || len(g.Members) == 0 {
		return ""
	}
	return g.Members[0].AnchorTag()
}

// MessageDef is a message type: the root group plus its wire delimiters.
// The root group has no tag of its own.
type MessageDef struct {
	Type       string
	Root       *GroupDef
	Delimiters Delimiters // Zero value selects DefaultDelimiters.
}

// Validate reports schema-author errors. A MessageDef that validates can be
// shared between goroutines; nothing in the engines mutates it.
func (m *MessageDef) Validate() error {
	v := &schemaValidator{}
	p := RootPath()
	if m.Type == "" {
		v.add(p, "message type is empty")
	}
	if err := m.Delimiters.orDefault().validate(); err != nil {
		v.add(p, err.Error())
	}
	if m.Root == nil {
		v.add(p, "message has no root group")
	} else {
		v.group(m.Root, p)
	}
	if len(v.iss) > 0 {
		return v.iss
	}
	return nil
}

type schemaValidator struct {
	iss Issues
}

func (v *schemaValidator) add(p PathRef, msg string) {
	it := p.Issue(CodeInvalidSchema, msg)
	v.iss = append(v.iss, it)
}

func (v *schemaValidator) group(g *GroupDef, p PathRef) {
	if len(g.Members) == 0 {
		v.add(p, "group has no members")
		return
	}
	for i := range g.Members {
		m := &g.Members[i]
		mp := p.Field(m.Label())
		switch {
		case m.Segment != nil && m.Group != nil:
			v.add(mp, "member declares both a segment and a group")
		case m.Segment != nil:
			v.segment(m.Segment, mp)
		case m.Group != nil:
			v.group(m.Group, mp)
		default:
			v.add(mp, "member declares neither a segment nor a group")
		}
		if m.Max < 0 {
			v.add(mp, "negative max")
		}
		if m.Max > 0 && !m.Card.Repeats() && m.Max != 1 {
			v.add(mp, fmt.Sprintf("max %d on non-repeating member", m.Max))
		}
	}
}

func (v *schemaValidator) segment(s *SegmentDef, p PathRef) {
	if !isTag(s.Tag) {
		v.add(p, fmt.Sprintf("segment tag %q must be an uppercase identifier", s.Tag))
	}
	seen := map[string]struct{}{}
	for i := range s.Fields {
		f := &s.Fields[i]
		fp := p.Field(f.Name)
		if f.Name == "" {
			v.add(p.Index(i), "field has no name")
		} else if _, dup := seen[f.Name]; dup {
			v.add(fp, "duplicate field name")
		}
		seen[f.Name] = struct{}{}
		switch {
		case f.Component != nil && f.Composite != nil:
			v.add(fp, "field declares both a component and a composite")
		case f.Component == nil && f.Composite == nil:
			v.add(fp, "field declares neither a component nor a composite")
		case f.Composite != nil:
			v.composite(f.Composite, fp)
		}
		if f.Card.Repeats() && f.Max == 0 && i != len(s.Fields)-1 {
			v.add(fp, "unbounded list field must be the last field")
		}
		if f.Max < 0 {
			v.add(fp, "negative max")
		}
	}
}

func (v *schemaValidator) composite(c *CompositeDef, p PathRef) {
	if len(c.Components) == 0 {
		v.add(p, "composite has no components")
	}
	for i := range c.Components {
		if c.Components[i].Name == "" {
			v.add(p.Index(i), "component has no name")
		}
	}
}

func isTag(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}
