package edikit

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTooManyFields           = "too_many_fields"
	CodeMissingMandatoryField   = "missing_mandatory_field"
	CodeUnexpectedSegmentTag    = "unexpected_segment_tag"
	CodeLeafConversion          = "leaf_conversion"
	CodeEmptyRequiredRepetition = "empty_required_repetition"
	// Schema authoring and caller contract violations.
	CodeInvalidSchema      = "invalid_schema"
	CodeShapeMismatch      = "shape_mismatch"
	CodeUnknownMessageType = "unknown_message_type"
	// Cross-field rules checked after parsing (see package rules).
	CodeUniqueness = "uniqueness"
	CodeDependency = "dependency"
)

// Sentinel errors matched by errors.Is against Issues carrying the
// corresponding code.
var (
	ErrTooManyFields           = errors.New("edikit: too many fields")
	ErrMissingMandatoryField   = errors.New("edikit: missing mandatory field")
	ErrUnexpectedSegmentTag    = errors.New("edikit: unexpected segment tag")
	ErrLeafConversion          = errors.New("edikit: leaf conversion failed")
	ErrEmptyRequiredRepetition = errors.New("edikit: empty required repetition")
	ErrInvalidSchema           = errors.New("edikit: invalid schema")
	ErrShapeMismatch           = errors.New("edikit: value does not match schema")
	ErrUnknownMessageType      = errors.New("edikit: unknown message type")
	ErrUniqueness              = errors.New("edikit: duplicate value")
	ErrDependency              = errors.New("edikit: dependency not satisfied")
)

var _sentinels = map[string]error{
	CodeTooManyFields:           ErrTooManyFields,
	CodeMissingMandatoryField:   ErrMissingMandatoryField,
	CodeUnexpectedSegmentTag:    ErrUnexpectedSegmentTag,
	CodeLeafConversion:          ErrLeafConversion,
	CodeEmptyRequiredRepetition: ErrEmptyRequiredRepetition,
	CodeInvalidSchema:           ErrInvalidSchema,
	CodeShapeMismatch:           ErrShapeMismatch,
	CodeUnknownMessageType:      ErrUnknownMessageType,
	CodeUniqueness:              ErrUniqueness,
	CodeDependency:              ErrDependency,
}

// Issue represents a single parse, format or schema failure.
type Issue struct {
	Path    string // Pointer through the schema (for example: /SG2/0/NAD/party/code).
	Code    string // One of the codes listed above.
	Message string
	Line    int // 1-based segment ordinal (0 when unknown).

	Tag      string // Segment tag involved, when known.
	Field    string // Field or component name, when known.
	Table    string // Code table name for leaf conversion failures.
	Expected string // Expected kind or tag (e.g. "numeric", "an..35", "BGM").
	// Fragment is the raw text (token or line) that triggered the issue.
	Fragment string
	Cause    error // Optional: underlying error.
}

func (it Issue) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	if it.Line > 0 {
		fmt.Fprintf(b, " (segment %d)", it.Line)
	}
	if it.Message != "" {
		b.WriteString(": ")
		b.WriteString(it.Message)
	}
	if it.Fragment != "" {
		fmt.Fprintf(b, " %q", it.Fragment)
	}
	return b.String()
}

// Is matches the sentinel error for the issue code.
func (it Issue) Is(target error) bool {
	s, ok := _sentinels[it.Code]
	return ok && s == target
}

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any contained issue matches target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if it.Is(target) {
			return true
		}
	}
	return false
}

// First returns the first issue, or the zero Issue when empty.
func (iss Issues) First() Issue {
	if len(iss) == 0 {
		return Issue{}
	}
	return iss[0]
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var it Issue
	if errors.As(err, &it) {
		return Issues{it}, true
	}
	return nil, false
}
