package rules

import (
	"fmt"
	"strings"

	edikit "github.com/reoring/edikit"
)

// Dependency is a segment dependency note relating the presence of
// fields (or components) within one segment.
type Dependency int

const (
	// ExactlyOne (D1): one and only one of the listed items is present.
	ExactlyOne Dependency = iota + 1
	// AllOrNone (D2): the listed items are all present or all absent.
	AllOrNone
	// OneOrMore (D3): at least one of the listed items is present.
	OneOrMore
	// IfFirstThenAll (D5): when the first item is present, all others are.
	IfFirstThenAll
)

var dependencyNames = map[Dependency]string{
	ExactlyOne:     "D1",
	AllOrNone:      "D2",
	OneOrMore:      "D3",
	IfFirstThenAll: "D5",
}

func (d Dependency) String() string {
	if s, ok := dependencyNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Dependency(%d)", int(d))
}

// ParseDependency reads a note identifier ("D1", "D2", "D3" or "D5").
func ParseDependency(s string) (Dependency, error) {
	for d, name := range dependencyNames {
		if strings.EqualFold(s, name) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("rules: unknown dependency note %q", s)
}

func (d Dependency) holds(present []bool) bool {
	n := 0
	for _, p := range present {
		if p {
			n++
		}
	}
	switch d {
	case ExactlyOne:
		return n == 1
	case AllOrNone:
		return n == 0 || n == len(present)
	case OneOrMore:
		return n > 0
	case IfFirstThenAll:
		return len(present) == 0 || !present[0] || n == len(present)
	}
	return false
}

func (d Dependency) describe(items []string) string {
	list := strings.Join(items, ", ")
	switch d {
	case ExactlyOne:
		return "exactly one of " + list
	case AllOrNone:
		return "all or none of " + list
	case OneOrMore:
		return "at least one of " + list
	case IfFirstThenAll:
		return "if " + items[0] + " then all of " + list
	}
	return d.String()
}

// Note checks dependency d on every occurrence of the segment at segment.
// Items are pointers relative to the segment: a field name or
// field/component.
func Note(d Dependency, segment string, items ...string) Rule {
	return func(def *edikit.MessageDef, msg *edikit.Message) edikit.Issues {
		if _, ok := dependencyNames[d]; !ok || len(items) < 2 {
			return schemaIssue(fmt.Errorf("rules: %v needs at least two items", d))
		}
		segs, err := selectFrom(rootNode(def, msg), segment)
		if err != nil {
			return schemaIssue(err)
		}
		var out edikit.Issues
		for _, s := range segs {
			if s.kind != segmentNode {
				return schemaIssue(fmt.Errorf("rules: %q is not a segment", segment))
			}
			present := make([]bool, len(items))
			for i, item := range items {
				nodes, err := selectFrom(s, item)
				if err != nil {
					return schemaIssue(err)
				}
				for _, n := range nodes {
					present[i] = present[i] || n.present()
				}
			}
			if !d.holds(present) {
				it := edikit.IssueAt(s.path, edikit.CodeDependency, d.describe(items))
				it.Tag = s.sdef.Tag
				out = append(out, it)
			}
		}
		return out
	}
}
