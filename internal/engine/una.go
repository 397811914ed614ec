package engine

import "strings"

// UNA service string advice: "UNA" followed by six characters, in order the
// component separator, element separator, decimal mark, release character,
// a reserved position and the segment terminator.
const (
	unaTag = "UNA"
	unaLen = len(unaTag) + 6
)

// ReadUNA reports whether text starts with a UNA service string and, if so,
// returns the advertised delimiters and the text following the advice.
// Only the delimiter triad is taken over; the release character is ignored.
func ReadUNA(text string) (Delims, string, bool) {
	s := strings.TrimLeft(text, "\r\n")
	if !strings.HasPrefix(s, unaTag) {
		return Delims{}, text, false
	}
	r := []rune(s)
	if len(r) < unaLen {
		return Delims{}, text, false
	}
	d := Delims{Component: r[3], Element: r[4], Segment: r[8]}
	return d, string(r[unaLen:]), true
}

// WriteUNA renders a UNA service string for d using '.' as decimal mark and
// '?' as release character.
func WriteUNA(d Delims) string {
	var b strings.Builder
	b.WriteString(unaTag)
	b.WriteRune(d.Component)
	b.WriteRune(d.Element)
	b.WriteString(".? ")
	b.WriteRune(d.Segment)
	return b.String()
}
