package tags

import (
	"strings"
	"unicode"
)

// Markers of the documentation macro language.
const (
	// Marker starts an invocation in template text: #Doc:Name(args).
	Marker = "#Doc:"
	// AltMarker is the alternate marker character, which also ends a tag name.
	AltMarker = '#'
	// DefineMarker starts a tag definition line: #Tag:Name(p1, p2).
	DefineMarker = "#Tag:"
	// EndMarker starts the line closing a tag definition.
	EndMarker = "#EndTag"
	// ExtendsMarker links a documentation source to a fallback source.
	ExtendsMarker = "#Extends:"
)

// nameDelimiters end a tag name. The first one present anywhere in the rest
// of the line wins, regardless of where it occurs.
var nameDelimiters = [...]byte{'(', AltMarker, '\r', '\n', ' '}

// Arg is one argument of an invocation.
type Arg struct {
	Name  string // empty for a positional argument
	Value string
}

// Named reports whether a was written as name=value.
func (a Arg) Named() bool { return a.Name != "" }

func (a Arg) String() string {
	if a.Named() {
		return a.Name + "=" + a.Value
	}

	return a.Value
}

// Invocation is a tag call found in one line of template text.
type Invocation struct {
	Name  string
	Args  []Arg
	Start int // byte offset of the marker in the line
	End   int // byte offset just past the invocation

	// Malformed holds the reason the invocation could not be parsed.
	Malformed string
}

// Scan parses the invocation whose marker begins at byte offset start of
// line. line includes its terminator, if any.
//
// When Malformed is set, End extends to the end of the line's content so the
// whole unparseable remainder is replaced.
func Scan(line string, start int) Invocation {
	inv := Invocation{Start: start}
	nameAt := start + len(Marker)
	rest := line[nameAt:]

	delim := -1

	for _, d := range nameDelimiters {
		if i := strings.IndexByte(rest, d); i >= 0 {
			delim = i

			break
		}
	}

	if delim < 0 {
		inv.End = contentEnd(line)
		inv.Malformed = "tag name is not delimited"

		return inv
	}

	raw := rest[:delim]
	inv.Name = strings.TrimSpace(raw)

	if inv.Name == "" {
		inv.End = contentEnd(line)
		inv.Malformed = "empty tag name"

		return inv
	}

	if rest[delim] != '(' {
		inv.End = nameAt + len(strings.TrimRightFunc(raw, unicode.IsSpace))

		return inv
	}

	open := nameAt + delim

	closing := matchParen(line, open)
	if closing < 0 {
		inv.End = contentEnd(line)
		inv.Malformed = "unbalanced argument list"

		return inv
	}

	inv.Args = SplitArgs(line[open+1 : closing])
	inv.End = closing + 1

	return inv
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1.
func matchParen(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// contentEnd returns the length of line without its terminator.
func contentEnd(line string) int {
	return len(strings.TrimRight(line, "\r\n"))
}

// splitTop splits s at commas outside any parentheses and brackets. The two
// nesting levels are counted independently.
func splitTop(s string) []string {
	var (
		parts  []string
		parens int
		square int
		from   int
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			parens++
		case ')':
			parens--
		case '[':
			square++
		case ']':
			square--
		case ',':
			if parens == 0 && square == 0 {
				parts = append(parts, s[from:i])
				from = i + 1
			}
		}
	}

	return append(parts, s[from:])
}

// SplitArgs splits the text between an invocation's parentheses into
// arguments. An empty list has no arguments.
func SplitArgs(s string) []Arg {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := splitTop(s)
	args := make([]Arg, len(parts))

	for i, p := range parts {
		args[i] = parseArg(p)
	}

	return args
}

// parseArg recognizes name=value when the = is outside any nesting and the
// left side is an identifier.
func parseArg(s string) Arg {
	depth := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '=':
			if depth != 0 {
				continue
			}

			if name := strings.TrimSpace(s[:i]); isIdentifier(name) {
				return Arg{Name: name, Value: strings.TrimSpace(s[i+1:])}
			}

			return Arg{Value: strings.TrimSpace(s)}
		}
	}

	return Arg{Value: strings.TrimSpace(s)}
}

// SplitList returns the elements of a bracketed list literal such as
// "[a, b, c]", and whether s is one.
func SplitList(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, false
	}

	inner := s[1 : len(s)-1]
	if strings.TrimSpace(inner) == "" {
		return []string{}, true
	}

	parts := splitTop(inner)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}

// indentOf returns the leading spaces and tabs of line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// indent prefixes every line after the first in s with ind. Empty lines are
// left empty.
func indent(s, ind string) string {
	if ind == "" || !strings.Contains(s, "\n") {
		return s
	}

	lines := strings.SplitAfter(s, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r\n") != "" {
			lines[i] = ind + lines[i]
		}
	}

	return strings.Join(lines, "")
}
