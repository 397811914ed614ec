package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/edikit/rules"
)

var ops = map[string]rules.Op{
	"eq": rules.Eq, "ne": rules.Ne,
	"lt": rules.Lt, "le": rules.Le,
	"gt": rules.Gt, "ge": rules.Ge,
}

func buildRules(specs []ruleSpec, where string) ([]rules.Rule, error) {
	out := make([]rules.Rule, 0, len(specs))
	for i, s := range specs {
		r, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("catalog: %s rule %d: %w", where, i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

func (s ruleSpec) build() (rules.Rule, error) {
	set := 0
	for _, ok := range []bool{s.Unique != nil, s.Required != "", s.Note != "", s.If != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errors.New("exactly one of unique, required, note and if must be set")
	}
	switch {
	case s.Unique != nil:
		if s.Unique.Collection == "" || s.Unique.Key == "" {
			return nil, errors.New("unique needs collection and key")
		}
		return rules.UniqueBy(s.Unique.Collection, s.Unique.Key), nil
	case s.Required != "":
		return rules.AtLeastOne(s.Required), nil
	case s.Note != "":
		d, err := rules.ParseDependency(s.Note)
		if err != nil {
			return nil, err
		}
		if s.Segment == "" || len(s.Items) < 2 {
			return nil, fmt.Errorf("note %s needs a segment and at least two items", d)
		}
		return rules.Note(d, s.Segment, s.Items...), nil
	}
	cond, err := s.If.build()
	if err != nil {
		return nil, err
	}
	if len(s.Then) == 0 {
		return nil, errors.New("if needs then")
	}
	then := make([]rules.Rule, 0, len(s.Then))
	for _, t := range s.Then {
		r, err := t.build()
		if err != nil {
			return nil, err
		}
		then = append(then, r)
	}
	return cond.Then(then...), nil
}

func (c *condSpec) build() (rules.Conditional, error) {
	if c.Path == "" {
		return rules.Conditional{}, errors.New("if needs a path")
	}
	op := strings.ToLower(c.Op)
	if op == "present" {
		return rules.IfPresent(c.Path), nil
	}
	if op == "" {
		op = "eq"
	}
	o, ok := ops[op]
	if !ok {
		return rules.Conditional{}, fmt.Errorf("unknown operator %q", c.Op)
	}
	return rules.If(c.Path, o, c.Value), nil
}
