package codec

import (
	"strconv"
	"strings"

	edikit "github.com/reoring/edikit"
)

type intCodec struct{}

// Int returns a codec for whole numbers.
func Int() Leaf[int64] { return intCodec{} }

func (intCodec) Decode(l edikit.Leaf) (int64, error) {
	s, err := present(l, "integer")
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, conversionIssue("integer", s, err)
	}
	return n, nil
}

func (intCodec) Encode(n int64) (edikit.Leaf, error) {
	return edikit.Text(strconv.FormatInt(n, 10)), nil
}

type decimalCodec struct {
	mark byte
}

// Decimal returns a codec for decimal numbers. Both '.' and ',' are
// accepted on decode; mark selects the one written on encode ('.' when 0).
func Decimal(mark byte) Leaf[float64] {
	if mark != ',' {
		mark = '.'
	}
	return decimalCodec{mark: mark}
}

func (c decimalCodec) Decode(l edikit.Leaf) (float64, error) {
	s, err := present(l, "decimal")
	if err != nil {
		return 0, err
	}
	if strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return 0, conversionIssue("decimal", s, nil)
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, conversionIssue("decimal", s, err)
	}
	return f, nil
}

func (c decimalCodec) Encode(f float64) (edikit.Leaf, error) {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if c.mark == ',' {
		s = strings.Replace(s, ".", ",", 1)
	}
	return edikit.Text(s), nil
}
