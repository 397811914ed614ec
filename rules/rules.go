// Package rules adds cross-field checks on parsed messages: conditional
// rules, uniqueness across repetitions and segment dependency notes.
//
// Rules address values with pointers that follow the message definition:
// member labels, then field names, then component names, for example
// "/SG28/LIN/line" or "/BGM/name/code". Repeating members and list fields
// match every occurrence unless an index follows them ("/SG28/0/LIN/line").
package rules

import (
	"strconv"
	"strings"

	edikit "github.com/reoring/edikit"
)

// Rule checks a parsed message and reports every violation it finds.
type Rule func(def *edikit.MessageDef, msg *edikit.Message) edikit.Issues

// Check runs rules against msg and returns the collected Issues, or nil.
func Check(def *edikit.MessageDef, msg *edikit.Message, rules ...Rule) error {
	if def == nil || def.Root == nil || msg == nil || msg.Root == nil {
		return edikit.Issues{edikit.RootPath().Issue(edikit.CodeShapeMismatch, "nil message or definition")}
	}
	var all edikit.Issues
	for _, r := range rules {
		if r == nil {
			continue
		}
		all = edikit.AppendIssues(all, r(def, msg)...)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path     string
	op       Op
	want     string
	presence bool
	all      []Conditional // composite AND
	any      []Conditional // composite OR
}

// If holds when any present value at path compares to want with op.
// Values are compared as numbers when both sides are numeric.
func If(path string, op Op, want string) Conditional {
	return Conditional{path: path, op: op, want: want}
}

// IfPresent holds when any value at path is present.
func IfPresent(path string) Conditional { return Conditional{path: path, presence: true} }

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(rules ...Rule) Rule {
	return func(def *edikit.MessageDef, msg *edikit.Message) edikit.Issues {
		ok, err := c.eval(rootNode(def, msg))
		if err != nil {
			return schemaIssue(err)
		}
		if !ok {
			return nil
		}
		var all edikit.Issues
		for _, r := range rules {
			if r != nil {
				all = append(all, r(def, msg)...)
			}
		}
		return all
	}
}

func (c Conditional) eval(root node) (bool, error) {
	switch {
	case len(c.all) > 0:
		for _, sub := range c.all {
			ok, err := sub.eval(root)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case len(c.any) > 0:
		for _, sub := range c.any {
			ok, err := sub.eval(root)
			if err != nil || ok {
				return ok, err
			}
		}
		return false, nil
	}
	nodes, err := selectFrom(root, c.path)
	if err != nil {
		return false, err
	}
	for _, n := range nodes {
		if !n.present() {
			continue
		}
		if c.presence || (n.kind == leafNode && compare(n.leaf.Text, c.op, c.want)) {
			return true, nil
		}
	}
	return false, nil
}

func compare(got string, op Op, want string) bool {
	c := strings.Compare(got, want)
	if a, err := strconv.ParseFloat(got, 64); err == nil {
		if b, err := strconv.ParseFloat(want, 64); err == nil {
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			default:
				c = 0
			}
		}
	}
	switch op {
	case Eq:
		return c == 0
	case Ne:
		return c != 0
	case Lt:
		return c < 0
	case Le:
		return c <= 0
	case Gt:
		return c > 0
	case Ge:
		return c >= 0
	}
	return false
}

// AtLeastOne requires a present value at path.
func AtLeastOne(path string) Rule {
	return func(def *edikit.MessageDef, msg *edikit.Message) edikit.Issues {
		nodes, err := selectFrom(rootNode(def, msg), path)
		if err != nil {
			return schemaIssue(err)
		}
		for _, n := range nodes {
			if n.present() {
				return nil
			}
		}
		it := edikit.IssueAt(edikit.RootPath(), edikit.CodeDependency, path+" is required")
		it.Path = "/" + strings.Trim(path, "/")
		return edikit.Issues{it}
	}
}

// UniqueBy ensures occurrences of the repeating member at collection have
// distinct values at key, a pointer relative to each occurrence (for
// example UniqueBy("/SG28", "LIN/line")). Occurrences without a value are
// skipped.
func UniqueBy(collection, key string) Rule {
	return func(def *edikit.MessageDef, msg *edikit.Message) edikit.Issues {
		occ, err := selectFrom(rootNode(def, msg), collection)
		if err != nil {
			return schemaIssue(err)
		}
		seen := map[string]string{}
		var out edikit.Issues
		for _, o := range occ {
			keys, err := selectFrom(o, key)
			if err != nil {
				return schemaIssue(err)
			}
			k, ok := firstPresent(keys)
			if !ok {
				continue
			}
			if first, dup := seen[k.leaf.Text]; dup {
				it := edikit.IssueAt(k.path, edikit.CodeUniqueness, first)
				it.Fragment = k.leaf.Text
				out = append(out, it)
				continue
			}
			seen[k.leaf.Text] = k.path.Pointer()
		}
		return out
	}
}

func schemaIssue(err error) edikit.Issues {
	it := edikit.RootPath().Issue(edikit.CodeInvalidSchema, err.Error())
	it.Cause = err
	return edikit.Issues{it}
}

func firstPresent(nodes []node) (node, bool) {
	for _, n := range nodes {
		if n.kind == leafNode && n.leaf.Present() {
			return n, true
		}
	}
	return node{}, false
}
