// Package jsonview projects edikit value trees to JSON and back.
//
// The projection is driven by the message definition: groups and segments
// become objects keyed by member label, repeating members and list fields
// become arrays, composites become objects keyed by component name and
// leaves become strings. Absent values are omitted. Keys appear in schema
// order.
//
//	{"type":"ORDERS","body":{"UNH":{"ref":"1","type":{"type":"ORDERS",...}},"SG2":[{"NAD":{...}}]}}
package jsonview

import (
	"bytes"
	"fmt"

	j "github.com/goccy/go-json"

	edikit "github.com/reoring/edikit"
)

// Marshal renders msg as compact JSON.
func Marshal(def *edikit.MessageDef, msg *edikit.Message) ([]byte, error) {
	if def == nil || def.Root == nil {
		return nil, edikit.Issues{edikit.RootPath().Issue(edikit.CodeInvalidSchema, "nil message definition")}
	}
	if msg == nil || msg.Root == nil {
		return nil, shape(edikit.RootPath(), "nil message")
	}
	e := &encoder{}
	e.buf.WriteString(`{"type":`)
	if err := e.str(def.Type); err != nil {
		return nil, err
	}
	e.buf.WriteString(`,"body":`)
	if err := e.group(def.Root, msg.Root, edikit.RootPath()); err != nil {
		return nil, err
	}
	e.buf.WriteByte('}')
	return e.buf.Bytes(), nil
}

// MarshalIndent is Marshal with indentation.
func MarshalIndent(def *edikit.MessageDef, msg *edikit.Message, prefix, indent string) ([]byte, error) {
	b, err := Marshal(def, msg)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, b, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func shape(p edikit.PathRef, detail string) error {
	return edikit.Issues{p.Issue(edikit.CodeShapeMismatch, detail)}
}

type encoder struct {
	buf bytes.Buffer
}

func (e *encoder) str(s string) error {
	b, err := j.Marshal(s)
	if err != nil {
		return err
	}
	e.buf.Write(b)
	return nil
}

// key writes a separator when needed and the quoted key.
func (e *encoder) key(first *bool, k string) error {
	if !*first {
		e.buf.WriteByte(',')
	}
	*first = false
	if err := e.str(k); err != nil {
		return err
	}
	e.buf.WriteByte(':')
	return nil
}

func (e *encoder) group(def *edikit.GroupDef, g *edikit.Group, path edikit.PathRef) error {
	if g == nil {
		return shape(path, "nil group")
	}
	if len(g.Members) != len(def.Members) {
		return shape(path, fmt.Sprintf("group has %d members, schema declares %d", len(g.Members), len(def.Members)))
	}
	e.buf.WriteByte('{')
	first := true
	for i := range def.Members {
		md := &def.Members[i]
		mv := &g.Members[i]
		if mv.Len() == 0 {
			continue
		}
		mp := path.Field(md.Label())
		if err := e.key(&first, md.Label()); err != nil {
			return err
		}
		if md.Card.Repeats() {
			e.buf.WriteByte('[')
		} else if mv.Len() > 1 {
			return shape(mp, fmt.Sprintf("at most one occurrence allowed, got %d", mv.Len()))
		}
		at := func(k int) edikit.PathRef {
			if md.Card.Repeats() {
				return mp.Index(k)
			}
			return mp
		}
		for k, s := range mv.Segments {
			if k > 0 {
				e.buf.WriteByte(',')
			}
			if md.Segment == nil {
				return shape(mp, "segments given for a group member")
			}
			if err := e.segment(md.Segment, s, at(k)); err != nil {
				return err
			}
		}
		for k, sub := range mv.Groups {
			if k > 0 {
				e.buf.WriteByte(',')
			}
			if md.Group == nil {
				return shape(mp, "groups given for a segment member")
			}
			if err := e.group(md.Group, sub, at(k)); err != nil {
				return err
			}
		}
		if md.Card.Repeats() {
			e.buf.WriteByte(']')
		}
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) segment(def *edikit.SegmentDef, s *edikit.Segment, path edikit.PathRef) error {
	if s == nil {
		return shape(path, "nil segment")
	}
	if len(s.Fields) != len(def.Fields) {
		return shape(path, fmt.Sprintf("segment has %d fields, schema declares %d", len(s.Fields), len(def.Fields)))
	}
	e.buf.WriteByte('{')
	first := true
	for i := range def.Fields {
		fd := &def.Fields[i]
		fv := &s.Fields[i]
		if !fv.Present() {
			continue
		}
		fp := path.Field(fd.Name)
		if err := e.key(&first, fd.Name); err != nil {
			return err
		}
		if !fd.Card.Repeats() {
			if len(fv.Elements) > 1 {
				return shape(fp, fmt.Sprintf("single field holds %d elements", len(fv.Elements)))
			}
			if err := e.element(fd, fv.Elements[0], fp); err != nil {
				return err
			}
			continue
		}
		e.buf.WriteByte('[')
		for k, el := range fv.Elements {
			if k > 0 {
				e.buf.WriteByte(',')
			}
			if err := e.element(fd, el, fp.Index(k)); err != nil {
				return err
			}
		}
		e.buf.WriteByte(']')
	}
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) element(fd *edikit.FieldDef, el edikit.Element, path edikit.PathRef) error {
	if fd.Composite == nil {
		return e.str(el.Leaf(0).Text)
	}
	if len(el.Components) > len(fd.Composite.Components) {
		return shape(path, fmt.Sprintf("composite holds %d components, schema declares %d", len(el.Components), len(fd.Composite.Components)))
	}
	e.buf.WriteByte('{')
	first := true
	for i, cd := range fd.Composite.Components {
		l := el.Leaf(i)
		if !l.Present() {
			continue
		}
		if err := e.key(&first, cd.Name); err != nil {
			return err
		}
		if err := e.str(l.Text); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}
