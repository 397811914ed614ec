package dsl_test

import (
	"errors"
	"testing"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/dsl"
)

func TestComponent_MethodsReturnCopies(t *testing.T) {
	base := dsl.Text("id")
	req := base.Required().MaxLen(35)
	if base.Def().Required || base.Def().MaxLen != 0 {
		t.Fatalf("base component was modified: %+v", base.Def())
	}
	if d := req.Def(); !d.Required || d.MaxLen != 35 {
		t.Fatalf("unexpected def %+v", d)
	}
	if req.Optional().Def().Required {
		t.Fatalf("Optional must clear Required")
	}
}

func TestCodes(t *testing.T) {
	tbl := dsl.Codes("1153", "ON", "Order number", "CT")
	if tbl.Name() != "1153" || tbl.Len() != 2 {
		t.Fatalf("unexpected table %v", tbl.Keys())
	}
	if tbl.Label("CT") != "" || tbl.Label("ON") != "Order number" {
		t.Fatalf("labels: %q %q", tbl.Label("CT"), tbl.Label("ON"))
	}
}

func TestSegment_FieldCardinalities(t *testing.T) {
	s := dsl.Segment("PIA").Name("Additional product id").
		Field("function", dsl.Text("function")).Required().
		Field("ids", dsl.Of(dsl.Composite("C212", dsl.Text("id").Required()))).OneOrMore(5).
		Field("note", dsl.Text("note")).Many(0).
		MustBuild()
	want := []struct {
		card edikit.Cardinality
		max  int
	}{{edikit.One, 0}, {edikit.OneOrMore, 5}, {edikit.ZeroOrMore, 0}}
	for i, w := range want {
		f := s.Fields[i]
		if f.Card != w.card || f.Max != w.max {
			t.Fatalf("field %d: %v/%d want %v/%d", i, f.Card, f.Max, w.card, w.max)
		}
	}
	if s.Fields[1].Composite == nil || s.Fields[0].Component == nil {
		t.Fatalf("field shapes not set")
	}
	if s.Name != "Additional product id" {
		t.Fatalf("name=%q", s.Name)
	}

	opt := dsl.Segment("FTX").Field("text", dsl.Text("text")).MustBuild()
	if opt.Fields[0].Card != edikit.Optional {
		t.Fatalf("fields default to optional, got %v", opt.Fields[0].Card)
	}
}

func TestSegment_BuildIsIndependent(t *testing.T) {
	b := dsl.Segment("FTX")
	b.Field("a", dsl.Text("a"))
	first := b.MustBuild()
	b.Field("b", dsl.Text("b"))
	if len(first.Fields) != 1 {
		t.Fatalf("built definition shares state with the builder")
	}
}

func TestSegment_InvalidList(t *testing.T) {
	_, err := dsl.Segment("PIA").
		Field("ids", dsl.Text("id")).Many(0).
		Field("note", dsl.Text("note")).
		Build()
	if !errors.Is(err, edikit.ErrInvalidSchema) {
		t.Fatalf("expected invalid schema, got %v", err)
	}
}

func TestMessage_Delimiters(t *testing.T) {
	d := edikit.Delimiters{Component: '*', Element: '|', Segment: '!'}
	def := dsl.Message("T").
		Delimiters(d).
		Segment(dsl.Segment("AAA").Field("v", dsl.Text("v")).MustBuild()).One().
		MustBuild()
	msg, err := edikit.Parse(def, "AAA|x!")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := edikit.Format(def, msg)
	if err != nil || out != "AAA|x!" {
		t.Fatalf("format=%q err=%v", out, err)
	}
}

func TestGroup_Members(t *testing.T) {
	nad := dsl.Segment("NAD").Field("q", dsl.Text("q")).Required().MustBuild()
	cta := dsl.Segment("CTA").Field("f", dsl.Text("f")).MustBuild()
	contacts := dsl.Group("SG5").Segment(cta).One().Build()
	g := dsl.Group("SG2").
		Segment(nad).One().
		Group(contacts).Max(5).Many().
		Build()
	if g.Name != "SG2" || len(g.Members) != 2 {
		t.Fatalf("unexpected group %+v", g)
	}
	if m := g.Members[1]; m.Group != contacts || m.Max != 5 || m.Card != edikit.ZeroOrMore {
		t.Fatalf("unexpected member %+v", m)
	}
	if g.AnchorTag() != "NAD" || contacts.AnchorTag() != "CTA" {
		t.Fatalf("anchors: %q %q", g.AnchorTag(), contacts.AnchorTag())
	}
}
