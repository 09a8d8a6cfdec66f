package templates

import (
	"strconv"
	"strings"
)

// Template is a parsed template expression, ready for repeated
// rendering.
type Template struct {
	text     string
	segments []segment
}

// segment is one parsed piece of a template: either a literal run or a
// placeholder.
type segment struct {
	placeholder bool
	literal     string
	name        string
	column      string
	width       int
}

// String returns the original template text.
func (t *Template) String() string {
	return t.text
}

// Variables returns the distinct placeholder names in first-use order.
func (t *Template) Variables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, seg := range t.segments {
		if !seg.placeholder {
			continue
		}
		if _, ok := seen[seg.name]; ok {
			continue
		}
		seen[seg.name] = struct{}{}
		names = append(names, seg.name)
	}
	return names
}

// Parse scans text left to right for {name}, {name.column}, and
// {name:width} placeholders. Parsing never fails: a brace that does
// not open a well-formed placeholder is literal text, and literal runs
// are preserved exactly.
func Parse(text string) *Template {
	t := &Template{text: text}

	var lit strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '{' {
			lit.WriteByte(c)
			i++
			continue
		}

		seg, next, ok := parsePlaceholder(text, i)
		if !ok {
			lit.WriteByte(c)
			i++
			continue
		}

		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
		t.segments = append(t.segments, seg)
		i = next
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}

	return t
}

// parsePlaceholder parses {name(.column)?(:width)?} starting at the
// opening brace. Returns the segment and the index just past the
// closing brace.
func parsePlaceholder(text string, start int) (segment, int, bool) {
	i := start + 1

	name, i, ok := parseIdent(text, i)
	if !ok {
		return segment{}, 0, false
	}

	var column string
	if i < len(text) && text[i] == '.' {
		column, i, ok = parseIdent(text, i+1)
		if !ok {
			return segment{}, 0, false
		}
	}

	width := 0
	if i < len(text) && text[i] == ':' {
		width, i, ok = parseWidth(text, i+1)
		if !ok {
			return segment{}, 0, false
		}
	}

	if i >= len(text) || text[i] != '}' {
		return segment{}, 0, false
	}

	return segment{placeholder: true, name: name, column: column, width: width}, i + 1, true
}

// parseIdent consumes an identifier: a letter or underscore followed
// by letters, digits, or underscores.
func parseIdent(text string, start int) (string, int, bool) {
	i := start
	if i >= len(text) || !isIdentStart(text[i]) {
		return "", start, false
	}
	i++
	for i < len(text) && isIdentPart(text[i]) {
		i++
	}
	return text[start:i], i, true
}

// parseWidth consumes a run of decimal digits.
func parseWidth(text string, start int) (int, int, bool) {
	i := start
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start {
		return 0, start, false
	}
	n, err := strconv.Atoi(text[start:i])
	if err != nil {
		return 0, start, false
	}
	return n, i, true
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
