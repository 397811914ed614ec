// Package edikit provides:
//
// - A schema-driven codec for EDIFACT-style delimited messages (Parse/Format)
// - An explicit Schema Model (components, composites, segments, groups, cardinalities)
// - A stable error model via Issues (pointer path, code, segment line, raw fragment)
// - A Registry that maps message types to definitions built with dsl/ or loaded by catalog/
//
// Design policy:
// - Keep only public APIs in the root package; put the tokenizer under internal/.
// - Place the schema DSL under dsl/, YAML catalogues under catalog/, JSON projection under jsonview/,
//   typed leaf codecs under codec/, and the CLI under cmd/edikit.
// - Definitions are immutable after construction; Parse and Format keep no state between calls.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	def := orders() // *edikit.MessageDef built with dsl
//	msg, err := edikit.Parse(def, text)
//	out, err := edikit.Format(def, msg)
//
//	reg := edikit.NewRegistry().MustRegister(def)
//	msg, err = reg.Parse("", text) // type detected from UNH
//
// Parsing is a single pass with one line of lookahead; a tag mismatch ends a
// repetition without consuming the line, and any failure aborts the whole
// message. Escaping with a release character is not supported.
package edikit
