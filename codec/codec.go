// Package codec converts text leaves of an edikit value tree to typed Go
// values and back: EDIFACT dates by format qualifier, integers and
// decimals.
package codec

import (
	edikit "github.com/reoring/edikit"
)

// Leaf converts between a component value and T.
type Leaf[T any] interface {
	Decode(l edikit.Leaf) (T, error)
	Encode(v T) (edikit.Leaf, error)
}

func conversionIssue(expected, raw string, cause error) error {
	it := edikit.IssueAt(edikit.RootPath(), edikit.CodeLeafConversion, expected)
	it.Fragment = raw
	it.Cause = cause
	return edikit.Issues{it}
}

// present returns the leaf text or a conversion issue for absent leaves.
func present(l edikit.Leaf, expected string) (string, error) {
	if !l.Present() {
		return "", conversionIssue(expected, "", nil)
	}
	return l.Text, nil
}
