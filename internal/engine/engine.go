package engine

import "strings"

// Delims is the delimiter triad the tokenizer splits on.
type Delims struct {
	Component rune
	Element   rune
	Segment   rune
}

// Line is one segment line with its terminator stripped. No is the 1-based
// ordinal of the line within the message.
type Line struct {
	No   int
	Text string
}

// SplitLines cuts text into segment lines on the segment terminator.
// Surrounding CR/LF are removed from every line; blank lines (including the
// empty tail after the final terminator) are dropped.
func SplitLines(text string, d Delims) []Line {
	raw := strings.Split(text, string(d.Segment))
	out := make([]Line, 0, len(raw))
	for _, r := range raw {
		s := strings.Trim(r, "\r\n")
		if s == "" {
			continue
		}
		out = append(out, Line{No: len(out) + 1, Text: s})
	}
	return out
}

// SplitElements splits a segment line on the element delimiter and returns
// the tag and the remaining element tokens. Empty tokens are preserved.
func SplitElements(line string, d Delims) (string, []string) {
	parts := strings.Split(line, string(d.Element))
	return parts[0], parts[1:]
}

// SplitComponents splits one element token on the component delimiter.
// Empty tokens are preserved; an empty input yields a single empty token.
func SplitComponents(tok string, d Delims) []string {
	return strings.Split(tok, string(d.Component))
}

// TagOf returns the first element token of line.
func TagOf(line string, d Delims) string {
	if i := strings.IndexRune(line, d.Element); i >= 0 {
		return line[:i]
	}
	return line
}
