package edikit

import (
	"strconv"
	"strings"
)

// PathRef builds issue paths in a chain-safe way. Parts are kept as a parent
// chain and rendered only when an issue is produced.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	Pointer() string
	Issue(code, msg string) Issue
}

// RootPath returns the empty path ("/").
func RootPath() PathRef { return (*pathRef)(nil) }

type pathRef struct {
	parent *pathRef
	part   string
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	// escape '~' -> '~0', '/' -> '~1' per RFC6901
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return &pathRef{parent: p, part: esc}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parent: p, part: strconv.Itoa(i)}
}

func (p *pathRef) Pointer() string {
	if p == nil {
		return "/"
	}
	var parts []string
	for q := p; q != nil; q = q.parent {
		parts = append(parts, q.part)
	}
	b := &strings.Builder{}
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

func (p *pathRef) Issue(code, msg string) Issue {
	return Issue{Path: p.Pointer(), Code: code, Message: msg}
}
