package codec

import (
	"fmt"
	"time"

	edikit "github.com/reoring/edikit"
)

// Date/time format qualifiers (code list 2379) with their layouts.
const (
	CCYYMMDD       = "102"
	CCYYMMDDHHMM   = "203"
	CCYYMMDDHHMMSS = "204"
	YYMMDD         = "101"
	HHMM           = "401"
)

var dateLayouts = map[string]string{
	CCYYMMDD:       "20060102",
	CCYYMMDDHHMM:   "200601021504",
	CCYYMMDDHHMMSS: "20060102150405",
	YYMMDD:         "060102",
	HHMM:           "1504",
}

// DateQualifiers lists the supported format qualifiers.
func DateQualifiers() []string {
	return []string{YYMMDD, CCYYMMDD, CCYYMMDDHHMM, CCYYMMDDHHMMSS, HHMM}
}

type dateCodec struct {
	qualifier string
	layout    string
	loc       *time.Location
}

// Date returns a codec for values written in the layout of qualifier.
// Decoded times are in loc (UTC when nil); encoding converts to loc first.
func Date(qualifier string, loc *time.Location) (Leaf[time.Time], error) {
	layout, ok := dateLayouts[qualifier]
	if !ok {
		return nil, fmt.Errorf("codec: unsupported date format qualifier %q", qualifier)
	}
	if loc == nil {
		loc = time.UTC
	}
	return dateCodec{qualifier: qualifier, layout: layout, loc: loc}, nil
}

// MustDate is like Date but panics on an unknown qualifier.
func MustDate(qualifier string, loc *time.Location) Leaf[time.Time] {
	c, err := Date(qualifier, loc)
	if err != nil {
		panic(err)
	}
	return c
}

func (c dateCodec) expected() string { return "date:" + c.qualifier }

func (c dateCodec) Decode(l edikit.Leaf) (time.Time, error) {
	s, err := present(l, c.expected())
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(c.layout, s, c.loc)
	if err != nil {
		return time.Time{}, conversionIssue(c.expected(), s, err)
	}
	return t, nil
}

func (c dateCodec) Encode(t time.Time) (edikit.Leaf, error) {
	if t.IsZero() {
		return edikit.Absent(), nil
	}
	return edikit.Text(t.In(c.loc).Format(c.layout)), nil
}

// DecodePeriod reads a date/time/period composite laid out as
// qualifier:value:format (C507). An absent format defaults to 102.
func DecodePeriod(el edikit.Element) (qualifier string, t time.Time, err error) {
	format := el.Leaf(2).Text
	if format == "" {
		format = CCYYMMDD
	}
	c, err := Date(format, nil)
	if err != nil {
		return "", time.Time{}, conversionIssue("date format", format, err)
	}
	t, err = c.Decode(el.Leaf(1))
	if err != nil {
		return "", time.Time{}, err
	}
	return el.Leaf(0).Text, t, nil
}

// EncodePeriod builds a C507 element. The qualifier is stored as a code.
func EncodePeriod(qualifier string, t time.Time, format string) (edikit.Element, error) {
	c, err := Date(format, nil)
	if err != nil {
		return edikit.Element{}, err
	}
	v, err := c.Encode(t)
	if err != nil {
		return edikit.Element{}, err
	}
	return edikit.Elem(edikit.Code(qualifier), v, edikit.Text(format)), nil
}
