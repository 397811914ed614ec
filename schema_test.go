package edikit_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/dsl"
)

func TestValidate_OrdersDefinition(t *testing.T) {
	if err := ordersDef().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	text := &edikit.ComponentDef{Name: "v"}
	okSeg := &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{{Name: "v", Card: edikit.Optional, Component: text}}}
	msg := func(members ...edikit.MemberDef) *edikit.MessageDef {
		return &edikit.MessageDef{Type: "T", Root: &edikit.GroupDef{Members: members}}
	}
	cases := []struct {
		name string
		def  *edikit.MessageDef
		want string
	}{
		{"empty type", &edikit.MessageDef{Root: &edikit.GroupDef{Members: []edikit.MemberDef{{Segment: okSeg}}}}, "message type is empty"},
		{"no root", &edikit.MessageDef{Type: "T"}, "no root group"},
		{"empty group", msg(), "group has no members"},
		{"both shapes", msg(edikit.MemberDef{Segment: okSeg, Group: &edikit.GroupDef{}}), "both a segment and a group"},
		{"neither shape", msg(edikit.MemberDef{Name: "X"}), "neither a segment nor a group"},
		{"max on single", msg(edikit.MemberDef{Segment: okSeg, Card: edikit.Optional, Max: 3}), "non-repeating"},
		{"negative max", msg(edikit.MemberDef{Segment: okSeg, Card: edikit.ZeroOrMore, Max: -1}), "negative max"},
		{"lower-case tag", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "aaa"}}), "uppercase identifier"},
		{"digit first", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "1AA"}}), "uppercase identifier"},
		{"duplicate field", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{
			{Name: "v", Component: text}, {Name: "v", Component: text},
		}}}), "duplicate field name"},
		{"unnamed field", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{{Component: text}}}}), "field has no name"},
		{"field without shape", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{{Name: "v"}}}}), "neither a component nor a composite"},
		{"unbounded list not last", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{
			{Name: "a", Card: edikit.ZeroOrMore, Component: text}, {Name: "b", Component: text},
		}}}), "must be the last field"},
		{"empty composite", msg(edikit.MemberDef{Segment: &edikit.SegmentDef{Tag: "AAA", Fields: []edikit.FieldDef{
			{Name: "c", Composite: &edikit.CompositeDef{Name: "C"}},
		}}}), "composite has no components"},
		{"clashing delimiters", &edikit.MessageDef{Type: "T", Delimiters: edikit.Delimiters{Component: ':', Element: ':', Segment: '\''},
			Root: &edikit.GroupDef{Members: []edikit.MemberDef{{Segment: okSeg}}}}, "distinct"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if !errors.Is(err, edikit.ErrInvalidSchema) {
				t.Fatalf("expected invalid schema, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	def := &edikit.MessageDef{Root: &edikit.GroupDef{Members: []edikit.MemberDef{{Name: "X"}, {Name: "Y"}}}}
	iss, ok := edikit.AsIssues(def.Validate())
	if !ok || len(iss) != 3 {
		t.Fatalf("expected three issues, got %v", iss)
	}
	if iss[1].Path != "/X" || iss[2].Path != "/Y" {
		t.Fatalf("paths=%q %q", iss[1].Path, iss[2].Path)
	}
}

func TestSegmentBuilder_Validates(t *testing.T) {
	_, err := dsl.Segment("bad").Field("v", dsl.Text("v")).Build()
	if !errors.Is(err, edikit.ErrInvalidSchema) {
		t.Fatalf("expected invalid schema, got %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("MustBuild must panic on invalid definitions")
		}
	}()
	dsl.Message("T").MustBuild()
}

func TestMemberLabels(t *testing.T) {
	g := dsl.Group("SG1").Segment(seg("NAD")).One().Build()
	def := dsl.Message("T").
		Segment(seg("BGM")).Name("header").One().
		Group(g).Many().
		MustBuild()
	ms := def.Root.Members
	if ms[0].Label() != "header" || ms[0].AnchorTag() != "BGM" {
		t.Fatalf("member 0: %q %q", ms[0].Label(), ms[0].AnchorTag())
	}
	if ms[1].Label() != "SG1" || ms[1].AnchorTag() != "NAD" {
		t.Fatalf("member 1: %q %q", ms[1].Label(), ms[1].AnchorTag())
	}
	msg := mustParse(t, def, "BGM+1'NAD+2'NAD+3'")
	if msg.Root.Member("header").Len() != 1 || msg.Root.Member("SG1").Len() != 2 {
		t.Fatalf("unexpected tree %#v", msg.Root)
	}
}

func TestCardinality(t *testing.T) {
	for _, c := range []edikit.Cardinality{edikit.One, edikit.Optional, edikit.ZeroOrMore, edikit.OneOrMore} {
		b, err := c.MarshalText()
		if err != nil {
			t.Fatalf("marshal %v: %v", c, err)
		}
		var back edikit.Cardinality
		if err := back.UnmarshalText(b); err != nil || back != c {
			t.Fatalf("round trip %q -> %v (%v)", b, back, err)
		}
	}
	short := map[string]edikit.Cardinality{"1": edikit.One, "?": edikit.Optional, "*": edikit.ZeroOrMore, "+": edikit.OneOrMore, "": edikit.One}
	for s, want := range short {
		if got, err := edikit.ParseCardinality(s); err != nil || got != want {
			t.Fatalf("ParseCardinality(%q)=%v,%v", s, got, err)
		}
	}
	if _, err := edikit.ParseCardinality("twice"); err == nil {
		t.Fatalf("expected error")
	}
	if !edikit.OneOrMore.Repeats() || edikit.Optional.Repeats() {
		t.Fatalf("Repeats")
	}
	if !edikit.One.Mandatory() || edikit.ZeroOrMore.Mandatory() {
		t.Fatalf("Mandatory")
	}
}

func TestCodeTable(t *testing.T) {
	tbl := edikit.NewCodeTable("4451", map[string]string{"aai": "General information", " PUR ": "Purchasing"}, "")
	if got := tbl.Keys(); !reflect.DeepEqual(got, []string{"AAI", "PUR"}) {
		t.Fatalf("keys=%v", got)
	}
	if k, ok := tbl.Resolve("  pur"); !ok || k != "PUR" {
		t.Fatalf("resolve=%q %v", k, ok)
	}
	if _, ok := tbl.Resolve("   "); ok {
		t.Fatalf("blank token must not resolve")
	}
	if tbl.Label("AAI") != "General information" || tbl.Len() != 2 || tbl.Pad() != edikit.DefaultPad {
		t.Fatalf("unexpected table %v", tbl.Keys())
	}

	zeros := edikit.NewCodeTable("Z", map[string]string{"7": "seven"}, "0")
	if k, ok := zeros.Resolve("007"); !ok || k != "7" {
		t.Fatalf("custom pad: %q %v", k, ok)
	}
}
