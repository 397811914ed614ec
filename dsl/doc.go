// Package dsl provides fluent builders for edikit message definitions.
//
// Overview
//   - Components: Text(), Numeric(), Coded(table) with MaxLen/Required; Codes() builds a code table.
//   - Composites: Composite(name, components...) returns a *edikit.CompositeDef; wrap it with Of() to use it as a field.
//   - Segments: Segment(tag).Field(name, spec).Required()/Optional()/Many(max)/OneOrMore(max) then Build()/MustBuild().
//   - Groups and messages: Group(name)/Message(type) with Segment(def)/Group(def) followed by an explicit
//     cardinality (One/Optional/Many/OneOrMore); Max(n) bounds repetitions.
//
// Quickstart
//
//	qual := dsl.Codes("3227", "9", "Place of loading", "11", "Place of discharge")
//	loc := dsl.Segment("LOC").
//		Field("qualifier", dsl.Coded("qualifier", qual)).Required().
//		Field("place", dsl.Of(dsl.Composite("C517", dsl.Text("id").Required(), dsl.Text("agency")))).
//		MustBuild()
//	def := dsl.Message("IFTMIN").
//		Segment(unh).One().
//		Segment(loc).Many().
//		Segment(unt).One().
//		MustBuild()
//
// Fields default to optional, members have no default: every member states
// its cardinality. The first member of a group is its anchor: the group is
// entered only when the anchor's tag is on the current line, and once
// entered the anchor counts as present.
package dsl
