package engine

// Cursor walks a line sequence with one line of lookahead. It never rewinds.
type Cursor struct {
	lines []Line
	pos   int
}

// NewCursor returns a cursor positioned at the first line.
func NewCursor(lines []Line) *Cursor { return &Cursor{lines: lines} }

// Peek returns the current line without consuming it.
func (c *Cursor) Peek() (Line, bool) {
	if c.pos >= len(c.lines) {
		return Line{}, false
	}
	return c.lines[c.pos], true
}

// Next consumes and returns the current line.
func (c *Cursor) Next() (Line, bool) {
	l, ok := c.Peek()
	if ok {
		c.pos++
	}
	return l, ok
}

// Done reports whether every line has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.lines) }

// Pos is the number of consumed lines.
func (c *Cursor) Pos() int { return c.pos }
