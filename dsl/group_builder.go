package dsl

import (
	edikit "github.com/reoring/edikit"
)

// members is the member list shared by group and message builders.
type members struct {
	list []edikit.MemberDef
}

func (m *members) add(md edikit.MemberDef) int {
	m.list = append(m.list, md)
	return len(m.list) - 1
}

// MemberStep sets the cardinality of the member just added and returns to
// the owning builder B. The cardinality is always explicit: the first
// member of a group is its anchor regardless of what is declared here.
type MemberStep[B any] struct {
	owner B
	m     *members
	idx   int
}

func (s *MemberStep[B]) set(c edikit.Cardinality) B {
	s.m.list[s.idx].Card = c
	return s.owner
}

// Name overrides the member name (defaults to the tag or group name).
func (s *MemberStep[B]) Name(name string) *MemberStep[B] {
	s.m.list[s.idx].Name = name
	return s
}

// Max bounds the number of repetitions.
func (s *MemberStep[B]) Max(n int) *MemberStep[B] {
	s.m.list[s.idx].Max = n
	return s
}

func (s *MemberStep[B]) One() B       { return s.set(edikit.One) }
func (s *MemberStep[B]) Optional() B  { return s.set(edikit.Optional) }
func (s *MemberStep[B]) Many() B      { return s.set(edikit.ZeroOrMore) }
func (s *MemberStep[B]) OneOrMore() B { return s.set(edikit.OneOrMore) }

type groupBuilder struct {
	name string
	m    members
}

// Group creates a segment group builder.
func Group(name string) *groupBuilder { return &groupBuilder{name: name} }

// Segment adds a segment member.
func (b *groupBuilder) Segment(s *edikit.SegmentDef) *MemberStep[*groupBuilder] {
	return &MemberStep[*groupBuilder]{owner: b, m: &b.m, idx: b.m.add(edikit.MemberDef{Segment: s})}
}

// Group adds a nested group member.
func (b *groupBuilder) Group(g *edikit.GroupDef) *MemberStep[*groupBuilder] {
	return &MemberStep[*groupBuilder]{owner: b, m: &b.m, idx: b.m.add(edikit.MemberDef{Group: g})}
}

// Build returns the group definition. Groups are validated as part of the
// message that contains them.
func (b *groupBuilder) Build() *edikit.GroupDef {
	return &edikit.GroupDef{Name: b.name, Members: append([]edikit.MemberDef(nil), b.m.list...)}
}

type messageBuilder struct {
	typ    string
	delims edikit.Delimiters
	m      members
}

// Message creates a message builder; the message body is its root group.
func Message(typ string) *messageBuilder { return &messageBuilder{typ: typ} }

// Delimiters sets the default delimiters for the message type.
func (b *messageBuilder) Delimiters(d edikit.Delimiters) *messageBuilder {
	b.delims = d
	return b
}

// Segment adds a segment member to the root group.
func (b *messageBuilder) Segment(s *edikit.SegmentDef) *MemberStep[*messageBuilder] {
	return &MemberStep[*messageBuilder]{owner: b, m: &b.m, idx: b.m.add(edikit.MemberDef{Segment: s})}
}

// Group adds a nested group member to the root group.
func (b *messageBuilder) Group(g *edikit.GroupDef) *MemberStep[*messageBuilder] {
	return &MemberStep[*messageBuilder]{owner: b, m: &b.m, idx: b.m.add(edikit.MemberDef{Group: g})}
}

// Build validates and returns the message definition.
func (b *messageBuilder) Build() (*edikit.MessageDef, error) {
	def := &edikit.MessageDef{
		Type:       b.typ,
		Delimiters: b.delims,
		Root:       &edikit.GroupDef{Members: append([]edikit.MemberDef(nil), b.m.list...)},
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

// MustBuild is like Build but panics on error.
func (b *messageBuilder) MustBuild() *edikit.MessageDef {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
