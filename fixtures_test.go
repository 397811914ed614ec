package edikit_test

import (
	edikit "github.com/reoring/edikit"
	"github.com/reoring/edikit/dsl"
)

var (
	docName     = dsl.Codes("1001", "220", "Order", "230", "Order change")
	msgFunction = dsl.Codes("1225", "9", "Original", "5", "Replace")
	dateQual    = dsl.Codes("2005", "137", "Document date", "2", "Delivery date")
	partyQual   = dsl.Codes("3035", "BY", "Buyer", "SU", "Supplier", "DP", "Delivery party")
)

func ordersDef() *edikit.MessageDef {
	unh := dsl.Segment("UNH").
		Field("ref", dsl.Text("ref").MaxLen(14)).Required().
		Field("type", dsl.Of(dsl.Composite("S009",
			dsl.Text("type").Required(),
			dsl.Text("version").Required(),
			dsl.Text("release").Required(),
			dsl.Text("agency").Required(),
			dsl.Text("assoc"),
		))).Required().
		MustBuild()
	bgm := dsl.Segment("BGM").
		Field("name", dsl.Of(dsl.Composite("C002",
			dsl.Coded("code", docName).Required(),
			dsl.Text("list"),
			dsl.Text("agency"),
			dsl.Text("text"),
		))).
		Field("number", dsl.Text("number").MaxLen(35)).Optional().
		Field("function", dsl.Coded("function", msgFunction)).Optional().
		MustBuild()
	dtm := dsl.Segment("DTM").
		Field("period", dsl.Of(dsl.Composite("C507",
			dsl.Coded("qualifier", dateQual).Required(),
			dsl.Text("value"),
			dsl.Text("format"),
		))).Required().
		MustBuild()
	nad := dsl.Segment("NAD").
		Field("qualifier", dsl.Coded("qualifier", partyQual)).Required().
		Field("party", dsl.Of(dsl.Composite("C082",
			dsl.Text("id").Required(),
			dsl.Text("list"),
			dsl.Text("agency"),
		))).
		MustBuild()
	rff := dsl.Segment("RFF").
		Field("ref", dsl.Of(dsl.Composite("C506", dsl.Text("qualifier").Required(), dsl.Text("number")))).Required().
		MustBuild()
	lin := dsl.Segment("LIN").
		Field("line", dsl.Numeric("line").MaxLen(6)).Required().
		Field("action", dsl.Text("action")).
		Field("item", dsl.Of(dsl.Composite("C212", dsl.Text("id"), dsl.Text("type")))).
		MustBuild()
	qty := dsl.Segment("QTY").
		Field("qty", dsl.Of(dsl.Composite("C186",
			dsl.Text("qualifier").Required(),
			dsl.Numeric("amount").Required(),
			dsl.Text("unit"),
		))).Required().
		MustBuild()
	uns := dsl.Segment("UNS").Field("section", dsl.Text("section")).Required().MustBuild()
	unt := dsl.Segment("UNT").
		Field("count", dsl.Numeric("count")).Required().
		Field("ref", dsl.Text("ref")).Required().
		MustBuild()

	sg2 := dsl.Group("SG2").
		Segment(nad).One().
		Segment(rff).Many().
		Build()
	sg28 := dsl.Group("SG28").
		Segment(lin).One().
		Segment(qty).OneOrMore().
		Build()

	return dsl.Message("ORDERS").
		Segment(unh).One().
		Segment(bgm).One().
		Segment(dtm).Max(35).Many().
		Group(sg2).Many().
		Group(sg28).OneOrMore().
		Segment(uns).One().
		Segment(unt).One().
		MustBuild()
}

const ordersText = "UNH+1+ORDERS:D:96A:UN'\n" +
	"BGM+220+PO-1+9'\n" +
	"DTM+137:20240101:102'\n" +
	"NAD+BY+5412345000013::9'\n" +
	"RFF+CT:42'\n" +
	"NAD+SU+4012345500004::9'\n" +
	"LIN+1++4000862141404:SRS'\n" +
	"QTY+21:48'\n" +
	"LIN+2++5412345111115:SRS'\n" +
	"QTY+21:12:PCE'\n" +
	"UNS+S'\n" +
	"UNT+12+1'"

// seg is a shorthand for single-segment definitions used in small
// cardinality tests: a tag with one optional text field.
func seg(tag string) *edikit.SegmentDef {
	return dsl.Segment(tag).Field("v", dsl.Text("v")).MustBuild()
}
