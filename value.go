package edikit

// LeafKind tells how a component value was resolved.
type LeafKind uint8

const (
	LeafAbsent LeafKind = iota // No value at this position.
	LeafText                   // Free or numeric text, stored verbatim.
	LeafCode                   // Code table enumerant; Text holds the canonical key.
)

// Leaf is one component value.
type Leaf struct {
	Kind LeafKind
	Text string
}

// Text returns a free-text leaf.
func Text(s string) Leaf { return Leaf{Kind: LeafText, Text: s} }

// Code returns a coded leaf holding the canonical key.
func Code(key string) Leaf { return Leaf{Kind: LeafCode, Text: key} }

// Absent returns the absent leaf.
func Absent() Leaf { return Leaf{} }

// Present reports whether the leaf carries a value.
func (l Leaf) Present() bool { return l.Kind != LeafAbsent }

func (l Leaf) String() string { return l.Text }

// Element is the value of one element position. Component fields hold a
// single leaf; composite fields hold one leaf per declared component.
type Element struct {
	Components []Leaf
}

// Elem builds an Element from leaves.
func Elem(leaves ...Leaf) Element { return Element{Components: leaves} }

// Leaf returns the i-th component, or the absent leaf when out of range.
func (e Element) Leaf(i int) Leaf {
	if i < 0 || i >= len(e.Components) {
		return Leaf{}
	}
	return e.Components[i]
}

// Field is a named field value. Elements is nil when the field is absent
// and holds one entry per repetition for list fields.
type Field struct {
	Name     string
	Elements []Element
}

// Present reports whether the field carries at least one element.
func (f *Field) Present() bool { return f != nil && len(f.Elements) > 0 }

// Leaf returns component i of the first element.
func (f *Field) Leaf(i int) Leaf {
	if !f.Present() {
		return Leaf{}
	}
	return f.Elements[0].Leaf(i)
}

// Segment is one parsed segment line.
type Segment struct {
	Tag    string
	Fields []Field
}

// Field looks up a field by name.
func (s *Segment) Field(name string) *Field {
	if s == nil {
		return nil
	}
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Member holds the occurrences of one group member, in encounter order.
// Segments is used for segment members, Groups for nested group members.
type Member struct {
	Name     string
	Segments []*Segment
	Groups   []*Group
}

// Len is the number of occurrences.
func (m *Member) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Segments) + len(m.Groups)
}

// Group is one occurrence of a segment group.
type Group struct {
	Name    string
	Members []Member
}

// Member looks up a member by name.
func (g *Group) Member(name string) *Member {
	if g == nil {
		return nil
	}
	for i := range g.Members {
		if g.Members[i].Name == name {
			return &g.Members[i]
		}
	}
	return nil
}

// Segment returns the first occurrence of a segment member.
func (g *Group) Segment(name string) *Segment {
	m := g.Member(name)
	if m == nil || len(m.Segments) == 0 {
		return nil
	}
	return m.Segments[0]
}

// Message is a parsed message. It is owned by the caller; the engines keep
// no reference to it.
type Message struct {
	Type string
	Root *Group
}
