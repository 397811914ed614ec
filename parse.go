package edikit

import (
	"strconv"
	"strings"
	"unicode/utf8"

	eng "github.com/reoring/edikit/internal/engine"
)

const endOfMessage = "end of message"

// Parse converts message text into a value tree described by def.
//
// The engine makes a single pass over the segment lines with one line of
// lookahead and never backtracks. Group members are matched by the tag of
// the current line: a mismatch stops a repetition or skips an optional
// member without consuming the line; a mismatch on a mandatory member is an
// error. Any failure aborts the whole message and no partial tree is
// returned. The error is always Issues holding exactly one Issue.
func Parse(def *MessageDef, text string, opts ...ParseOpt) (*Message, error) {
	if def == nil || def.Root == nil {
		return nil, singleIssue(RootPath().Issue(CodeInvalidSchema, "nil message definition"))
	}
	opt := lastOpt(opts)
	d := def.Delimiters.orDefault()
	if !opt.IgnoreUNA {
		if ud, rest, ok := eng.ReadUNA(text); ok {
			d, text = fromEngineDelims(ud), rest
		}
	}
	if !opt.Delimiters.IsZero() {
		d = opt.Delimiters
	}
	if err := d.validate(); err != nil {
		it := RootPath().Issue(CodeInvalidSchema, err.Error())
		it.Cause = err
		return nil, singleIssue(it)
	}
	p := newParser(d)
	p.cur = eng.NewCursor(eng.SplitLines(text, p.ed))

	root, err := p.group(def.Root, RootPath(), false)
	if err != nil {
		return nil, err
	}
	if l, ok := p.cur.Peek(); ok {
		return nil, p.unexpected(RootPath(), endOfMessage, &l)
	}
	return &Message{Type: def.Type, Root: root}, nil
}

// ParseSegment parses a single segment line (with or without its
// terminator) against def.
func ParseSegment(def *SegmentDef, line string, d Delimiters) (*Segment, error) {
	d = d.orDefault()
	p := newParser(d)
	line = strings.TrimSuffix(strings.Trim(line, "\r\n"), string(d.Segment))
	return p.segment(def, eng.Line{No: 1, Text: line}, RootPath().Field(def.Tag))
}

// ParseComposite parses a single element token against def.
func ParseComposite(def *CompositeDef, tok string, d Delimiters) (Element, error) {
	p := newParser(d.orDefault())
	return p.composite(def, tok, RootPath().Field(def.Name))
}

type parser struct {
	ed  eng.Delims
	cur *eng.Cursor

	// location of the segment being parsed, copied into issues
	line int
	tag  string
	text string
}

func newParser(d Delimiters) *parser { return &parser{ed: toEngineDelims(d)} }

// at reports whether the current line carries tag.
func (p *parser) at(tag string) bool {
	l, ok := p.cur.Peek()
	return ok && eng.TagOf(l.Text, p.ed) == tag
}

// anchorCard is the effective cardinality of a group's first member once
// the group has been entered: the anchor has already been seen.
func anchorCard(c Cardinality) Cardinality {
	switch c {
	case Optional:
		return One
	case ZeroOrMore:
		return OneOrMore
	default:
		return c
	}
}

func (p *parser) group(def *GroupDef, path PathRef, entered bool) (*Group, error) {
	g := &Group{Name: def.Name, Members: make([]Member, len(def.Members))}
	for i := range def.Members {
		md := &def.Members[i]
		mv := &g.Members[i]
		mv.Name = md.Label()
		mp := path.Field(mv.Name)
		card := md.Card
		if entered && i == 0 {
			card = anchorCard(card)
		}
		tag := md.AnchorTag()

		switch card {
		case One:
			if !p.at(tag) {
				return nil, p.unexpected(mp, tag, p.peek())
			}
			if err := p.occurrence(md, mv, mp); err != nil {
				return nil, err
			}
		case Optional:
			if p.at(tag) {
				if err := p.occurrence(md, mv, mp); err != nil {
					return nil, err
				}
			}
		default:
			n := 0
			for p.at(tag) && (md.Max == 0 || n < md.Max) {
				if err := p.occurrence(md, mv, mp.Index(n)); err != nil {
					return nil, err
				}
				n++
			}
			if n == 0 && card == OneOrMore {
				it := p.issue(mp, CodeEmptyRequiredRepetition, tag)
				if l := p.peek(); l != nil {
					it.Line, it.Tag, it.Fragment = l.No, eng.TagOf(l.Text, p.ed), l.Text
				} else {
					it.Line, it.Tag = 0, endOfMessage
				}
				return nil, singleIssue(it)
			}
		}
	}
	return g, nil
}

func (p *parser) peek() *eng.Line {
	if l, ok := p.cur.Peek(); ok {
		return &l
	}
	return nil
}

// occurrence consumes one occurrence of md at the cursor; the caller has
// already checked the anchor tag.
func (p *parser) occurrence(md *MemberDef, mv *Member, path PathRef) error {
	if md.Segment != nil {
		l, _ := p.cur.Next()
		s, err := p.segment(md.Segment, l, path)
		if err != nil {
			return err
		}
		mv.Segments = append(mv.Segments, s)
		return nil
	}
	g, err := p.group(md.Group, path, true)
	if err != nil {
		return err
	}
	mv.Groups = append(mv.Groups, g)
	return nil
}

func (p *parser) segment(def *SegmentDef, l eng.Line, path PathRef) (*Segment, error) {
	p.line, p.text = l.No, l.Text
	tag, toks := eng.SplitElements(l.Text, p.ed)
	p.tag = tag
	if tag != def.Tag {
		return nil, p.unexpected(path, def.Tag, &l)
	}
	s := &Segment{Tag: def.Tag, Fields: make([]Field, len(def.Fields))}
	pos := 0
	for i := range def.Fields {
		fd := &def.Fields[i]
		f := &s.Fields[i]
		f.Name = fd.Name
		fp := path.Field(fd.Name)

		if fd.Card.Repeats() {
			next := len(toks)
			if fd.Max > 0 {
				next = pos + fd.Max
			}
			for j := pos; j < next && j < len(toks); j++ {
				// empty positions inside the window are absent repetitions
				if toks[j] == "" {
					continue
				}
				el, err := p.element(fd, toks[j], fp.Index(len(f.Elements)))
				if err != nil {
					return nil, err
				}
				f.Elements = append(f.Elements, el)
			}
			if next > pos {
				pos = next
			}
			if fd.Card == OneOrMore && len(f.Elements) == 0 {
				it := p.issue(fp, CodeMissingMandatoryField, fd.Name)
				it.Field = fd.Name
				it.Fragment = p.text
				return nil, singleIssue(it)
			}
			continue
		}

		tok, ok := "", pos < len(toks)
		if ok {
			tok = toks[pos]
		}
		pos++
		el, present, err := p.single(fd, tok, ok, fp)
		if err != nil {
			return nil, err
		}
		if present {
			f.Elements = []Element{el}
		}
	}
	if pos < len(toks) {
		it := p.issue(path, CodeTooManyFields, strconv.Itoa(len(def.Fields)))
		it.Fragment = strings.Join(toks[pos:], string(p.ed.Element))
		return nil, singleIssue(it)
	}
	return s, nil
}

// single resolves a non-list field from its token; ok is false when the
// line ended before this position.
func (p *parser) single(fd *FieldDef, tok string, ok bool, path PathRef) (Element, bool, error) {
	missing := !ok
	if ok && tok == "" {
		// an empty token is a value only for mandatory free text
		missing = fd.Card != One || fd.Component == nil || !fd.Component.freeText()
		if fd.Composite != nil && fd.Card == One {
			missing = false
		}
	}
	if missing {
		if fd.Card == One {
			it := p.issue(path, CodeMissingMandatoryField, fd.Name)
			it.Field = fd.Name
			it.Fragment = p.text
			return Element{}, false, singleIssue(it)
		}
		return Element{}, false, nil
	}
	el, err := p.element(fd, tok, path)
	return el, err == nil, err
}

func (p *parser) element(fd *FieldDef, tok string, path PathRef) (Element, error) {
	if fd.Composite != nil {
		return p.composite(fd.Composite, tok, path)
	}
	l, err := p.leaf(fd.Component, fd.Name, tok, path)
	if err != nil {
		return Element{}, err
	}
	return Elem(l), nil
}

func (p *parser) composite(def *CompositeDef, tok string, path PathRef) (Element, error) {
	parts := eng.SplitComponents(tok, p.ed)
	if len(parts) > len(def.Components) {
		it := p.issue(path, CodeTooManyFields, strconv.Itoa(len(def.Components)))
		it.Field = def.Name
		it.Fragment = tok
		return Element{}, singleIssue(it)
	}
	el := Element{Components: make([]Leaf, len(def.Components))}
	for i := range def.Components {
		cd := &def.Components[i]
		cp := path.Field(cd.Name)
		if i >= len(parts) || (parts[i] == "" && !(cd.Required && cd.freeText())) {
			if cd.Required {
				it := p.issue(cp, CodeMissingMandatoryField, cd.Name)
				it.Field = cd.Name
				it.Fragment = tok
				return Element{}, singleIssue(it)
			}
			continue
		}
		l, err := p.leaf(cd, cd.Name, parts[i], cp)
		if err != nil {
			return Element{}, err
		}
		el.Components[i] = l
	}
	return el, nil
}

func (p *parser) leaf(cd *ComponentDef, name, tok string, path PathRef) (Leaf, error) {
	fail := func() (Leaf, error) {
		it := p.issue(path, CodeLeafConversion, cd.expectedKind())
		it.Field = name
		it.Fragment = tok
		if cd.Table != nil {
			it.Table = cd.Table.Name()
		}
		return Leaf{}, singleIssue(it)
	}
	if cd.Table != nil {
		key, ok := cd.Table.Resolve(tok)
		if !ok {
			return fail()
		}
		return Code(key), nil
	}
	if cd.Numeric && !isNumeric(tok) {
		return fail()
	}
	if cd.MaxLen > 0 && cd.length(tok) > cd.MaxLen {
		return fail()
	}
	return Text(tok), nil
}

func (p *parser) issue(path PathRef, code, expected string) Issue {
	it := IssueAt(path, code, expected)
	it.Line = p.line
	it.Tag = p.tag
	return it
}

func (p *parser) unexpected(path PathRef, expected string, l *eng.Line) error {
	it := IssueAt(path, CodeUnexpectedSegmentTag, expected)
	if l != nil {
		it.Line = l.No
		it.Tag = eng.TagOf(l.Text, p.ed)
		it.Fragment = l.Text
	} else {
		it.Tag = endOfMessage
	}
	return singleIssue(it)
}

func (c *ComponentDef) freeText() bool { return c.Table == nil && !c.Numeric }

// length is the value length checked against MaxLen: digits for numeric
// components, runes otherwise.
func (c *ComponentDef) length(s string) int {
	if c.Numeric {
		return countDigits(s)
	}
	return utf8.RuneCountInString(s)
}

// isNumeric accepts an optional leading minus, digits, and at most one
// decimal mark ('.' or ',').
func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	digits, marks := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' || c == ',':
			marks++
		default:
			return false
		}
	}
	return digits > 0 && marks <= 1
}

func countDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}
