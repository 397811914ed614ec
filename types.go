package edikit

import (
	"fmt"
	"strings"

	eng "github.com/reoring/edikit/internal/engine"
)

// Cardinality is the multiplicity of a group member or segment field.
type Cardinality int

const (
	One        Cardinality = iota // Exactly one (mandatory).
	Optional                      // Zero or one.
	ZeroOrMore                    // Repeating, may be empty.
	OneOrMore                     // Repeating, at least one.
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case Optional:
		return "optional"
	case ZeroOrMore:
		return "zero-or-more"
	case OneOrMore:
		return "one-or-more"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

// Repeats reports whether the cardinality allows more than one occurrence.
func (c Cardinality) Repeats() bool { return c == ZeroOrMore || c == OneOrMore }

// Mandatory reports whether at least one occurrence is required.
func (c Cardinality) Mandatory() bool { return c == One || c == OneOrMore }

// ParseCardinality parses the textual form produced by String. The short
// forms "1", "?", "*" and "+" are accepted as well.
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one", "1", "mandatory", "":
		return One, nil
	case "optional", "?":
		return Optional, nil
	case "zero-or-more", "*", "many":
		return ZeroOrMore, nil
	case "one-or-more", "+":
		return OneOrMore, nil
	}
	return One, fmt.Errorf("edikit: unknown cardinality %q", s)
}

func (c Cardinality) MarshalText() ([]byte, error) {
	if c < One || c > OneOrMore {
		return nil, fmt.Errorf("edikit: invalid cardinality %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Cardinality) UnmarshalText(b []byte) error {
	v, err := ParseCardinality(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Delimiters is the delimiter triad of the wire format.
type Delimiters struct {
	Component rune // Separates components inside a composite element.
	Element   rune // Separates elements (and the tag) inside a segment.
	Segment   rune // Terminates a segment line.
}

// DefaultDelimiters returns the conventional EDIFACT triad (':', '+', '\'').
func DefaultDelimiters() Delimiters {
	return Delimiters{Component: ':', Element: '+', Segment: '\''}
}

// IsZero reports whether no delimiter has been set.
func (d Delimiters) IsZero() bool { return d == Delimiters{} }

func (d Delimiters) orDefault() Delimiters {
	if d.IsZero() {
		return DefaultDelimiters()
	}
	return d
}

func (d Delimiters) validate() error {
	if d.Component == 0 || d.Element == 0 || d.Segment == 0 {
		return fmt.Errorf("edikit: incomplete delimiters %q", []rune{d.Component, d.Element, d.Segment})
	}
	if d.Component == d.Element || d.Component == d.Segment || d.Element == d.Segment {
		return fmt.Errorf("edikit: delimiters must be distinct, got %q", []rune{d.Component, d.Element, d.Segment})
	}
	return nil
}

func toEngineDelims(d Delimiters) eng.Delims {
	return eng.Delims{Component: d.Component, Element: d.Element, Segment: d.Segment}
}

func fromEngineDelims(d eng.Delims) Delimiters {
	return Delimiters{Component: d.Component, Element: d.Element, Segment: d.Segment}
}

// ParseOpt bundles parsing options.
type ParseOpt struct {
	// Delimiters overrides the message definition's delimiters.
	Delimiters Delimiters
	// IgnoreUNA disables UNA detection. By default a leading UNA service
	// string advice sets the delimiters and is not part of the tree;
	// explicit Delimiters still take precedence.
	IgnoreUNA bool
}

// FormatOpt bundles serialization options.
type FormatOpt struct {
	// Delimiters overrides the message definition's delimiters.
	Delimiters Delimiters
	// LineBreak separates rendered lines; nil means "\n". Use an empty
	// string for single-line output.
	LineBreak *string
	// EmitUNA prefixes the output with a UNA service string advice.
	EmitUNA bool
}

func (o FormatOpt) lineBreak() string {
	if o.LineBreak == nil {
		return "\n"
	}
	return *o.LineBreak
}

func lastOpt[T any](opts []T) T {
	var o T
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	return o
}
