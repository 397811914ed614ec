package dsl

import (
	edikit "github.com/reoring/edikit"
)

type segmentBuilder struct {
	def edikit.SegmentDef
}

type fieldStep struct {
	b   *segmentBuilder
	idx int
}

// Segment creates a segment builder for tag. Fields are positional in
// declaration order and optional unless marked otherwise.
func Segment(tag string) *segmentBuilder {
	return &segmentBuilder{def: edikit.SegmentDef{Tag: tag}}
}

// Name sets a descriptive name (informational).
func (b *segmentBuilder) Name(name string) *segmentBuilder {
	b.def.Name = name
	return b
}

// Field registers the next element position.
func (b *segmentBuilder) Field(name string, el ElementSpec) *fieldStep {
	f := edikit.FieldDef{Name: name, Card: edikit.Optional}
	el.applyTo(&f)
	b.def.Fields = append(b.def.Fields, f)
	return &fieldStep{b: b, idx: len(b.def.Fields) - 1}
}

func (f *fieldStep) def() *edikit.FieldDef { return &f.b.def.Fields[f.idx] }

// Required marks the field as mandatory and returns the builder.
func (f *fieldStep) Required() *segmentBuilder {
	f.def().Card = edikit.One
	return f.b
}

// Optional marks the field as optional (default) and returns the builder.
func (f *fieldStep) Optional() *segmentBuilder {
	f.def().Card = edikit.Optional
	return f.b
}

// Many turns the field into a list spanning up to max element positions
// (0 = to the end of the line, only allowed for the last field).
func (f *fieldStep) Many(max int) *segmentBuilder {
	d := f.def()
	d.Card, d.Max = edikit.ZeroOrMore, max
	return f.b
}

// OneOrMore is Many with at least one element required.
func (f *fieldStep) OneOrMore(max int) *segmentBuilder {
	d := f.def()
	d.Card, d.Max = edikit.OneOrMore, max
	return f.b
}

func (f *fieldStep) Field(name string, el ElementSpec) *fieldStep { return f.b.Field(name, el) }
func (f *fieldStep) Build() (*edikit.SegmentDef, error)           { return f.b.Build() }
func (f *fieldStep) MustBuild() *edikit.SegmentDef                { return f.b.MustBuild() }

// Build validates the segment and returns its definition.
func (b *segmentBuilder) Build() (*edikit.SegmentDef, error) {
	def := b.def
	def.Fields = append([]edikit.FieldDef(nil), b.def.Fields...)
	wrapper := &edikit.MessageDef{Type: def.Tag, Root: &edikit.GroupDef{Members: []edikit.MemberDef{{Segment: &def}}}}
	if err := wrapper.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// MustBuild is like Build but panics on error.
func (b *segmentBuilder) MustBuild() *edikit.SegmentDef {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
