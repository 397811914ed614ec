package rules

import (
	"fmt"
	"strconv"
	"strings"

	edikit "github.com/reoring/edikit"
)

type nodeKind uint8

const (
	groupNode nodeKind = iota
	segmentNode
	elementNode
	leafNode
)

// node is one position reached while walking a pointer through a message.
type node struct {
	kind nodeKind
	path edikit.PathRef

	gdef *edikit.GroupDef
	g    *edikit.Group
	sdef *edikit.SegmentDef
	s    *edikit.Segment
	cdef *edikit.CompositeDef
	el   edikit.Element
	leaf edikit.Leaf
}

func rootNode(def *edikit.MessageDef, msg *edikit.Message) node {
	return node{kind: groupNode, path: edikit.RootPath(), gdef: def.Root, g: msg.Root}
}

// present reports whether the node carries a value.
func (n node) present() bool {
	switch n.kind {
	case leafNode:
		return n.leaf.Present()
	case elementNode:
		for _, l := range n.el.Components {
			if l.Present() {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func splitPointer(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
	}
	return parts
}

// selectFrom walks pointer from n. Pointers name members by label, fields
// and components by name; repeating members and list fields fan out over
// every occurrence unless the next part is an index. Absent single fields
// still yield a node so that presence can be tested.
func selectFrom(n node, pointer string) ([]node, error) {
	parts := splitPointer(pointer)
	cur := []node{n}
	for i := 0; i < len(parts); i++ {
		idx := -1
		if i+1 < len(parts) {
			if v, err := strconv.Atoi(parts[i+1]); err == nil && v >= 0 {
				idx = v
			}
		}
		var next []node
		usedIdx := false
		for _, c := range cur {
			out, used, err := c.child(parts[i], idx)
			if err != nil {
				return nil, fmt.Errorf("rules: %s in %q", err, pointer)
			}
			usedIdx = usedIdx || used
			next = append(next, out...)
		}
		if usedIdx {
			i++
		}
		cur = next
	}
	return cur, nil
}

func (n node) child(name string, idx int) ([]node, bool, error) {
	switch n.kind {
	case groupNode:
		return n.member(name, idx)
	case segmentNode:
		return n.field(name, idx)
	case elementNode:
		for i := range n.cdef.Components {
			if n.cdef.Components[i].Name == name {
				return []node{{kind: leafNode, path: n.path.Field(name), leaf: n.el.Leaf(i)}}, false, nil
			}
		}
		return nil, false, fmt.Errorf("unknown component %q", name)
	default:
		return nil, false, fmt.Errorf("%q is below a leaf", name)
	}
}

func (n node) member(label string, idx int) ([]node, bool, error) {
	var md *edikit.MemberDef
	for i := range n.gdef.Members {
		if n.gdef.Members[i].Label() == label {
			md = &n.gdef.Members[i]
			break
		}
	}
	if md == nil {
		return nil, false, fmt.Errorf("unknown member %q", label)
	}
	repeats := md.Card.Repeats()
	use := repeats && idx >= 0
	mv := n.g.Member(label)
	if mv == nil {
		return nil, use, nil
	}
	at := func(j int) edikit.PathRef {
		p := n.path.Field(label)
		if repeats {
			p = p.Index(j)
		}
		return p
	}
	var out []node
	for j, s := range mv.Segments {
		if !use || j == idx {
			out = append(out, node{kind: segmentNode, path: at(j), sdef: md.Segment, s: s})
		}
	}
	for j, g := range mv.Groups {
		if !use || j == idx {
			out = append(out, node{kind: groupNode, path: at(j), gdef: md.Group, g: g})
		}
	}
	return out, use, nil
}

func (n node) field(name string, idx int) ([]node, bool, error) {
	var fd *edikit.FieldDef
	for i := range n.sdef.Fields {
		if n.sdef.Fields[i].Name == name {
			fd = &n.sdef.Fields[i]
			break
		}
	}
	if fd == nil {
		return nil, false, fmt.Errorf("unknown field %q", name)
	}
	fp := n.path.Field(name)
	elem := func(p edikit.PathRef, el edikit.Element) node {
		if fd.Composite != nil {
			return node{kind: elementNode, path: p, cdef: fd.Composite, el: el}
		}
		return node{kind: leafNode, path: p, leaf: el.Leaf(0)}
	}
	f := n.s.Field(name)
	if !fd.Card.Repeats() {
		var el edikit.Element
		if f.Present() {
			el = f.Elements[0]
		}
		return []node{elem(fp, el)}, false, nil
	}
	use := idx >= 0
	var out []node
	if f != nil {
		for j, el := range f.Elements {
			if !use || j == idx {
				out = append(out, elem(fp.Index(j), el))
			}
		}
	}
	return out, use, nil
}
