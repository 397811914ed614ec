package edikit_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/codec"
)

type order struct {
	Ref    string
	Number string
	Buyer  string
	Date   time.Time
	Lines  []orderLine
}

type orderLine struct {
	No  string
	Qty string
}

// orderCodec maps a small subset of ORDERS onto order.
type orderCodec struct {
	def *edikit.MessageDef
}

func (c orderCodec) Definition() *edikit.MessageDef { return c.def }

func (c orderCodec) Decode(msg *edikit.Message) (order, error) {
	r := msg.Root
	o := order{
		Ref:    r.Segment("UNH").Field("ref").Leaf(0).Text,
		Number: r.Segment("BGM").Field("number").Leaf(0).Text,
	}
	for _, s := range r.Member("DTM").Segments {
		q, ts, err := codec.DecodePeriod(s.Field("period").Elements[0])
		if err != nil {
			return order{}, err
		}
		if q == "137" {
			o.Date = ts
		}
	}
	for _, g := range r.Member("SG2").Groups {
		nad := g.Segment("NAD")
		if nad.Field("qualifier").Leaf(0).Text == "BY" {
			o.Buyer = nad.Field("party").Leaf(0).Text
		}
	}
	for _, g := range r.Member("SG28").Groups {
		o.Lines = append(o.Lines, orderLine{
			No:  g.Segment("LIN").Field("line").Leaf(0).Text,
			Qty: g.Segment("QTY").Field("qty").Leaf(1).Text,
		})
	}
	return o, nil
}

func (c orderCodec) Encode(o order) (*edikit.Message, error) {
	txt := edikit.Text
	one := func(ls ...edikit.Leaf) []edikit.Element { return []edikit.Element{edikit.Elem(ls...)} }
	segment := func(tag string, fields ...edikit.Field) *edikit.Segment {
		return &edikit.Segment{Tag: tag, Fields: fields}
	}
	header := edikit.Member{Name: "UNH", Segments: []*edikit.Segment{segment("UNH",
		edikit.Field{Name: "ref", Elements: one(txt(o.Ref))},
		edikit.Field{Name: "type", Elements: one(txt("ORDERS"), txt("D"), txt("96A"), txt("UN"))},
	)}}
	bgm := edikit.Member{Name: "BGM", Segments: []*edikit.Segment{segment("BGM",
		edikit.Field{Name: "name", Elements: one(edikit.Code("220"))},
		edikit.Field{Name: "number", Elements: one(txt(o.Number))},
		edikit.Field{Name: "function"},
	)}}
	dates := edikit.Member{Name: "DTM"}
	if !o.Date.IsZero() {
		period, err := codec.EncodePeriod("137", o.Date, codec.CCYYMMDD)
		if err != nil {
			return nil, err
		}
		dates.Segments = append(dates.Segments, segment("DTM", edikit.Field{Name: "period", Elements: []edikit.Element{period}}))
	}
	var parties edikit.Member
	parties.Name = "SG2"
	if o.Buyer != "" {
		parties.Groups = append(parties.Groups, &edikit.Group{Name: "SG2", Members: []edikit.Member{
			{Name: "NAD", Segments: []*edikit.Segment{segment("NAD",
				edikit.Field{Name: "qualifier", Elements: one(edikit.Code("BY"))},
				edikit.Field{Name: "party", Elements: one(txt(o.Buyer))},
			)}},
			{Name: "RFF"},
		}})
	}
	lines := edikit.Member{Name: "SG28"}
	for _, l := range o.Lines {
		lines.Groups = append(lines.Groups, &edikit.Group{Name: "SG28", Members: []edikit.Member{
			{Name: "LIN", Segments: []*edikit.Segment{segment("LIN",
				edikit.Field{Name: "line", Elements: one(txt(l.No))},
				edikit.Field{Name: "action"},
				edikit.Field{Name: "item"},
			)}},
			{Name: "QTY", Segments: []*edikit.Segment{segment("QTY",
				edikit.Field{Name: "qty", Elements: one(txt("21"), txt(l.Qty))},
			)}},
		}})
	}
	count := fmt.Sprint(4 + len(dates.Segments) + len(parties.Groups) + 2*len(o.Lines))
	root := &edikit.Group{Members: []edikit.Member{
		header, bgm, dates, parties, lines,
		{Name: "UNS", Segments: []*edikit.Segment{segment("UNS", edikit.Field{Name: "section", Elements: one(txt("S"))})}},
		{Name: "UNT", Segments: []*edikit.Segment{segment("UNT",
			edikit.Field{Name: "count", Elements: one(txt(count))},
			edikit.Field{Name: "ref", Elements: one(txt(o.Ref))},
		)}},
	}}
	return &edikit.Message{Type: "ORDERS", Root: root}, nil
}

var errNoLines = errors.New("order has no lines")

// refinedCodec adds a cross-field check.
type refinedCodec struct{ orderCodec }

func (refinedCodec) Refine(o order) error {
	for _, l := range o.Lines {
		if l.Qty == "0" {
			return errNoLines
		}
	}
	return nil
}

func TestUnmarshalMarshal(t *testing.T) {
	c := orderCodec{def: ordersDef()}
	o, err := edikit.Unmarshal[order](c, ordersText)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !o.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date=%v", o.Date)
	}
	if o.Ref != "1" || o.Number != "PO-1" || o.Buyer != "5412345000013" || len(o.Lines) != 2 || o.Lines[1].Qty != "12" {
		t.Fatalf("unexpected order %+v", o)
	}

	out, err := edikit.Marshal[order](c, o)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	const want = "UNH+1+ORDERS:D:96A:UN'\n" +
		"BGM+220+PO-1'\n" +
		"DTM+137:20240101:102'\n" +
		"NAD+BY+5412345000013'\n" +
		"LIN+1'\n" +
		"QTY+21:48'\n" +
		"LIN+2'\n" +
		"QTY+21:12'\n" +
		"UNS+S'\n" +
		"UNT+10+1'"
	if out != want {
		t.Fatalf("got\n%s\nwant\n%s", out, want)
	}
	again, err := edikit.Unmarshal[order](c, out)
	if err != nil {
		t.Fatalf("unmarshal again: %v", err)
	}
	if again.Buyer != o.Buyer || len(again.Lines) != 2 {
		t.Fatalf("unexpected order %+v", again)
	}
}

func TestUnmarshal_PropagatesParseIssues(t *testing.T) {
	c := orderCodec{def: ordersDef()}
	_, err := edikit.Unmarshal[order](c, "UNH+1+ORDERS:D:96A:UN'")
	if !errors.Is(err, edikit.ErrUnexpectedSegmentTag) {
		t.Fatalf("expected unexpected tag, got %v", err)
	}
}

func TestRefiner(t *testing.T) {
	c := refinedCodec{orderCodec{def: ordersDef()}}
	zero := "UNH+1+ORDERS:D:96A:UN'BGM+220'LIN+1'QTY+21:0'UNS+S'UNT+6+1'"
	if _, err := edikit.Unmarshal[order](c, zero); !errors.Is(err, errNoLines) {
		t.Fatalf("expected refine error, got %v", err)
	}
	if _, err := edikit.Marshal[order](c, order{Ref: "1", Lines: []orderLine{{No: "1", Qty: "0"}}}); !errors.Is(err, errNoLines) {
		t.Fatalf("expected refine error on marshal, got %v", err)
	}
	if _, err := edikit.Unmarshal[order](c, ordersText); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
}

func TestSafeParse(t *testing.T) {
	if _, ok := edikit.SafeParse(ordersDef(), "BGM+220'"); ok {
		t.Fatalf("expected failure")
	}
	if msg, ok := edikit.SafeParse(ordersDef(), ordersText); !ok || msg == nil {
		t.Fatalf("expected success")
	}
}
