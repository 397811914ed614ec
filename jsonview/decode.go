package jsonview

import (
	"bytes"
	"fmt"
	"sort"

	j "github.com/goccy/go-json"

	edikit "github.com/reoring/edikit"
)

type document struct {
	Type string         `json:"type"`
	Body map[string]any `json:"body"`
}

// Unmarshal builds a value tree for def from its JSON projection. Unknown
// keys and values of the wrong JSON type are shape mismatches; code values
// are checked against their tables only when the tree is formatted.
func Unmarshal(def *edikit.MessageDef, data []byte) (*edikit.Message, error) {
	if def == nil || def.Root == nil {
		return nil, edikit.Issues{edikit.RootPath().Issue(edikit.CodeInvalidSchema, "nil message definition")}
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("jsonview: %w", err)
	}
	if doc.Type != "" && doc.Type != def.Type {
		return nil, shape(edikit.RootPath(), fmt.Sprintf("document type %q decoded as %q", doc.Type, def.Type))
	}
	root, err := decodeGroup(def.Root, doc.Body, edikit.RootPath())
	if err != nil {
		return nil, err
	}
	return &edikit.Message{Type: def.Type, Root: root}, nil
}

func checkKeys(obj map[string]any, known func(string) bool, path edikit.PathRef) error {
	var extra []string
	for k := range obj {
		if !known(k) {
			extra = append(extra, k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return shape(path.Field(extra[0]), "unknown key")
}

func asObject(v any, path edikit.PathRef) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, shape(path, fmt.Sprintf("expected object, got %T", v))
	}
	return obj, nil
}

func asArray(v any, path edikit.PathRef) ([]any, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, shape(path, fmt.Sprintf("expected array, got %T", v))
	}
	return arr, nil
}

func decodeGroup(def *edikit.GroupDef, obj map[string]any, path edikit.PathRef) (*edikit.Group, error) {
	known := func(k string) bool {
		for i := range def.Members {
			if def.Members[i].Label() == k {
				return true
			}
		}
		return false
	}
	if err := checkKeys(obj, known, path); err != nil {
		return nil, err
	}
	g := &edikit.Group{Name: def.Name, Members: make([]edikit.Member, len(def.Members))}
	for i := range def.Members {
		md := &def.Members[i]
		mv := &g.Members[i]
		mv.Name = md.Label()
		mp := path.Field(mv.Name)
		v, ok := obj[mv.Name]
		if !ok || v == nil {
			continue
		}
		items := []any{v}
		if md.Card.Repeats() {
			arr, err := asArray(v, mp)
			if err != nil {
				return nil, err
			}
			items = arr
		}
		for k, it := range items {
			ip := mp
			if md.Card.Repeats() {
				ip = mp.Index(k)
			}
			o, err := asObject(it, ip)
			if err != nil {
				return nil, err
			}
			if md.Segment != nil {
				s, err := decodeSegment(md.Segment, o, ip)
				if err != nil {
					return nil, err
				}
				mv.Segments = append(mv.Segments, s)
				continue
			}
			sub, err := decodeGroup(md.Group, o, ip)
			if err != nil {
				return nil, err
			}
			mv.Groups = append(mv.Groups, sub)
		}
	}
	return g, nil
}

func decodeSegment(def *edikit.SegmentDef, obj map[string]any, path edikit.PathRef) (*edikit.Segment, error) {
	known := func(k string) bool {
		for i := range def.Fields {
			if def.Fields[i].Name == k {
				return true
			}
		}
		return false
	}
	if err := checkKeys(obj, known, path); err != nil {
		return nil, err
	}
	s := &edikit.Segment{Tag: def.Tag, Fields: make([]edikit.Field, len(def.Fields))}
	for i := range def.Fields {
		fd := &def.Fields[i]
		fv := &s.Fields[i]
		fv.Name = fd.Name
		fp := path.Field(fd.Name)
		v, ok := obj[fd.Name]
		if !ok || v == nil {
			continue
		}
		if !fd.Card.Repeats() {
			el, err := decodeElement(fd, v, fp)
			if err != nil {
				return nil, err
			}
			fv.Elements = []edikit.Element{el}
			continue
		}
		arr, err := asArray(v, fp)
		if err != nil {
			return nil, err
		}
		for k, it := range arr {
			el, err := decodeElement(fd, it, fp.Index(k))
			if err != nil {
				return nil, err
			}
			fv.Elements = append(fv.Elements, el)
		}
	}
	return s, nil
}

func decodeElement(fd *edikit.FieldDef, v any, path edikit.PathRef) (edikit.Element, error) {
	if fd.Composite == nil {
		l, err := decodeLeaf(fd.Component, v, path)
		if err != nil {
			return edikit.Element{}, err
		}
		return edikit.Elem(l), nil
	}
	obj, err := asObject(v, path)
	if err != nil {
		return edikit.Element{}, err
	}
	comps := fd.Composite.Components
	known := func(k string) bool {
		for i := range comps {
			if comps[i].Name == k {
				return true
			}
		}
		return false
	}
	if err := checkKeys(obj, known, path); err != nil {
		return edikit.Element{}, err
	}
	el := edikit.Element{Components: make([]edikit.Leaf, len(comps))}
	for i := range comps {
		cv, ok := obj[comps[i].Name]
		if !ok || cv == nil {
			continue
		}
		l, err := decodeLeaf(&comps[i], cv, path.Field(comps[i].Name))
		if err != nil {
			return edikit.Element{}, err
		}
		el.Components[i] = l
	}
	return el, nil
}

func decodeLeaf(cd *edikit.ComponentDef, v any, path edikit.PathRef) (edikit.Leaf, error) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case j.Number:
		s = t.String()
	default:
		return edikit.Leaf{}, shape(path, fmt.Sprintf("expected string, got %T", v))
	}
	if cd.Table != nil {
		return edikit.Code(s), nil
	}
	return edikit.Text(s), nil
}

// TypeOf reads the "type" member of a projected document without
// decoding its body.
func TypeOf(data []byte) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := j.Unmarshal(data, &head); err != nil {
		return "", fmt.Errorf("jsonview: %w", err)
	}
	return head.Type, nil
}
