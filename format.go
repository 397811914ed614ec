package edikit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	eng "github.com/reoring/edikit/internal/engine"
)

// Format renders msg as message text described by def.
//
// Lines are emitted in schema order, each followed by the segment
// terminator and separated by the configured line break. Trailing empty
// optional elements and components are trimmed, and segments without
// content are suppressed unless a mandatory field is present. A value tree that disagrees with def is a
// caller error reported as shape_mismatch.
func Format(def *MessageDef, msg *Message, opts ...FormatOpt) (string, error) {
	if def == nil || def.Root == nil {
		return "", singleIssue(RootPath().Issue(CodeInvalidSchema, "nil message definition"))
	}
	if msg == nil {
		return "", shapeIssue(RootPath(), "nil message")
	}
	if msg.Type != "" && msg.Type != def.Type {
		return "", shapeIssue(RootPath(), fmt.Sprintf("message type %q formatted as %q", msg.Type, def.Type))
	}
	opt := lastOpt(opts)
	d := def.Delimiters.orDefault()
	if !opt.Delimiters.IsZero() {
		d = opt.Delimiters
	}
	if err := d.validate(); err != nil {
		it := RootPath().Issue(CodeInvalidSchema, err.Error())
		it.Cause = err
		return "", singleIssue(it)
	}
	f := &formatter{d: d}
	var lines []string
	if err := f.group(def.Root, msg.Root, RootPath(), &lines); err != nil {
		return "", err
	}

	lb := opt.lineBreak()
	b := &strings.Builder{}
	if opt.EmitUNA {
		b.WriteString(eng.WriteUNA(toEngineDelims(d)))
		if len(lines) > 0 {
			b.WriteString(lb)
		}
	}
	for i, l := range lines {
		if i > 0 {
			b.WriteString(lb)
		}
		b.WriteString(l)
		b.WriteRune(d.Segment)
	}
	return b.String(), nil
}

// FormatSegment renders one segment without its terminator. The result is
// empty when the segment carries no content.
func FormatSegment(def *SegmentDef, s *Segment, d Delimiters) (string, error) {
	f := &formatter{d: d.orDefault()}
	return f.segment(def, s, RootPath().Field(def.Tag))
}

// FormatComposite renders one composite element token.
func FormatComposite(def *CompositeDef, el Element, d Delimiters) (string, error) {
	f := &formatter{d: d.orDefault()}
	return f.composite(def, el, RootPath().Field(def.Name))
}

type formatter struct {
	d Delimiters
}

func shapeIssue(p PathRef, detail string) error {
	it := IssueAt(p, CodeShapeMismatch, "")
	it.Message += ": " + detail
	return singleIssue(it)
}

func (f *formatter) group(def *GroupDef, g *Group, path PathRef, lines *[]string) error {
	if g == nil {
		return shapeIssue(path, "nil group")
	}
	if len(g.Members) != len(def.Members) {
		return shapeIssue(path, fmt.Sprintf("group has %d members, schema declares %d", len(g.Members), len(def.Members)))
	}
	for i := range def.Members {
		md := &def.Members[i]
		mv := &g.Members[i]
		mp := path.Field(md.Label())
		if mv.Name != "" && mv.Name != md.Label() {
			return shapeIssue(mp, fmt.Sprintf("member %q at position of %q", mv.Name, md.Label()))
		}
		if err := checkOccurrences(md, mv, mp); err != nil {
			return err
		}
		for j, s := range mv.Segments {
			sp := mp
			if md.Card.Repeats() {
				sp = mp.Index(j)
			}
			line, err := f.segment(md.Segment, s, sp)
			if err != nil {
				return err
			}
			if line != "" {
				*lines = append(*lines, line)
			}
		}
		for j, sub := range mv.Groups {
			gp := mp
			if md.Card.Repeats() {
				gp = mp.Index(j)
			}
			if err := f.group(md.Group, sub, gp, lines); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkOccurrences(md *MemberDef, mv *Member, path PathRef) error {
	n := len(mv.Segments)
	if md.Segment == nil {
		n = len(mv.Groups)
		if len(mv.Segments) > 0 {
			return shapeIssue(path, "segments given for a group member")
		}
	} else if len(mv.Groups) > 0 {
		return shapeIssue(path, "groups given for a segment member")
	}
	switch {
	case md.Card == One && n != 1:
		return shapeIssue(path, fmt.Sprintf("exactly one occurrence required, got %d", n))
	case md.Card == Optional && n > 1:
		return shapeIssue(path, fmt.Sprintf("at most one occurrence allowed, got %d", n))
	case md.Card == OneOrMore && n == 0:
		return shapeIssue(path, "at least one occurrence required")
	case md.Max > 0 && n > md.Max:
		return shapeIssue(path, fmt.Sprintf("at most %d occurrences allowed, got %d", md.Max, n))
	}
	return nil
}

func (f *formatter) segment(def *SegmentDef, s *Segment, path PathRef) (string, error) {
	if s == nil {
		return "", shapeIssue(path, "nil segment")
	}
	if s.Tag != def.Tag {
		return "", shapeIssue(path, fmt.Sprintf("segment %q at position of %q", s.Tag, def.Tag))
	}
	if len(s.Fields) != len(def.Fields) {
		return "", shapeIssue(path, fmt.Sprintf("segment has %d fields, schema declares %d", len(s.Fields), len(def.Fields)))
	}
	toks := make([]string, 1, len(def.Fields)+1)
	keep := make([]bool, 1, len(def.Fields)+1)
	toks[0], keep[0] = def.Tag, true
	for i := range def.Fields {
		fd := &def.Fields[i]
		fv := &s.Fields[i]
		fp := path.Field(fd.Name)
		if fv.Name != "" && fv.Name != fd.Name {
			return "", shapeIssue(fp, fmt.Sprintf("field %q at position of %q", fv.Name, fd.Name))
		}

		if fd.Card.Repeats() {
			if fd.Card == OneOrMore && len(fv.Elements) == 0 {
				return "", shapeIssue(fp, "list requires at least one element")
			}
			if fd.Max > 0 && len(fv.Elements) > fd.Max {
				return "", shapeIssue(fp, fmt.Sprintf("list allows %d elements, got %d", fd.Max, len(fv.Elements)))
			}
			if len(fv.Elements) == 0 {
				toks, keep = append(toks, ""), append(keep, false)
			}
			for j, el := range fv.Elements {
				tok, err := f.element(fd, el, fp.Index(j))
				if err != nil {
					return "", err
				}
				// parse skips empty positions inside a list window
				if tok == "" {
					return "", shapeIssue(fp.Index(j), "list entry renders as an empty token")
				}
				toks, keep = append(toks, tok), append(keep, false)
			}
			// keep later fields aligned with the list window
			if fd.Max > 0 && i < len(def.Fields)-1 {
				for n := max(len(fv.Elements), 1); n < fd.Max; n++ {
					toks, keep = append(toks, ""), append(keep, false)
				}
			}
			continue
		}

		switch len(fv.Elements) {
		case 0:
			if fd.Card == One {
				return "", shapeIssue(fp, "mandatory field is absent")
			}
			toks, keep = append(toks, ""), append(keep, false)
		case 1:
			tok, err := f.element(fd, fv.Elements[0], fp)
			if err != nil {
				return "", err
			}
			toks, keep = append(toks, tok), append(keep, fd.Card == One)
		default:
			return "", shapeIssue(fp, fmt.Sprintf("single field holds %d elements", len(fv.Elements)))
		}
	}
	toks = trimTrailing(toks, keep)
	line := strings.Join(toks, string(f.d.Element))
	if len(def.Fields) == 0 || mandatory(keep[1:]) {
		return line, nil
	}
	if len(line) <= len(def.Tag)+utf8.RuneLen(f.d.Element) {
		return "", nil
	}
	return line, nil
}

func (f *formatter) element(fd *FieldDef, el Element, path PathRef) (string, error) {
	if fd.Composite != nil {
		return f.composite(fd.Composite, el, path)
	}
	if len(el.Components) != 1 {
		return "", shapeIssue(path, fmt.Sprintf("component field holds %d components", len(el.Components)))
	}
	return f.leaf(fd.Component, el.Components[0], path, false)
}

func (f *formatter) composite(def *CompositeDef, el Element, path PathRef) (string, error) {
	if len(el.Components) > len(def.Components) {
		return "", shapeIssue(path, fmt.Sprintf("composite holds %d components, schema declares %d", len(el.Components), len(def.Components)))
	}
	toks := make([]string, len(def.Components))
	keep := make([]bool, len(def.Components))
	for i := range def.Components {
		cd := &def.Components[i]
		tok, err := f.leaf(cd, el.Leaf(i), path.Field(cd.Name), true)
		if err != nil {
			return "", err
		}
		toks[i], keep[i] = tok, cd.Required
	}
	return strings.Join(trimTrailing(toks, keep), string(f.d.Component)), nil
}

// leaf renders one component. Component fields are never split on the
// component delimiter, so only composite members must avoid it.
func (f *formatter) leaf(cd *ComponentDef, l Leaf, path PathRef, inComposite bool) (string, error) {
	switch l.Kind {
	case LeafAbsent:
		if cd.Required {
			return "", shapeIssue(path, "required component is absent")
		}
		return "", nil
	case LeafCode, LeafText:
		if cd.Table != nil {
			key, ok := cd.Table.Resolve(l.Text)
			if !ok {
				return "", shapeIssue(path, fmt.Sprintf("%q is not in code table %s", l.Text, cd.Table.Name()))
			}
			return key, nil
		}
		if l.Kind == LeafCode {
			return "", shapeIssue(path, "coded value for a text component")
		}
		if cd.Numeric && !isNumeric(l.Text) {
			return "", shapeIssue(path, fmt.Sprintf("text %q is not numeric", l.Text))
		}
		if n := cd.length(l.Text); cd.MaxLen > 0 && n > cd.MaxLen {
			return "", shapeIssue(path, fmt.Sprintf("text %q exceeds %s", l.Text, cd.expectedKind()))
		}
		// line breaks at a segment edge are stripped on parse
		reserved := []rune{f.d.Element, f.d.Segment, '\r', '\n'}
		if inComposite {
			reserved = append(reserved, f.d.Component)
		}
		if strings.ContainsAny(l.Text, string(reserved)) {
			return "", shapeIssue(path, fmt.Sprintf("text %q contains a delimiter or line break", l.Text))
		}
		return l.Text, nil
	default:
		return "", shapeIssue(path, fmt.Sprintf("unknown leaf kind %d", l.Kind))
	}
}

// mandatory reports whether any field token came from a mandatory field.
// Such a segment is never suppressed: parse requires its line.
func mandatory(keep []bool) bool {
	for _, k := range keep {
		if k {
			return true
		}
	}
	return false
}

// trimTrailing drops trailing empty tokens that are not mandatory.
func trimTrailing(toks []string, keep []bool) []string {
	n := len(toks)
	for n > 0 && toks[n-1] == "" && !keep[n-1] {
		n--
	}
	return toks[:n]
}
