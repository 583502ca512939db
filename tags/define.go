package tags

import (
	"slices"
	"strings"
)

// Tag is a named, parameterized block of documentation text.
type Tag struct {
	Name   string
	Params []string
	Body   string
	Source string // documentation source the tag was defined in
}

// Signature returns the tag's definition header, such as "Name(a, b)".
func (t Tag) Signature() string {
	if len(t.Params) == 0 {
		return t.Name
	}

	return t.Name + "(" + strings.Join(t.Params, ", ") + ")"
}

// HasParam reports whether name is one of t's formal parameters.
func (t Tag) HasParam(name string) bool { return slices.Contains(t.Params, name) }

// ParseTags returns the tag definitions in text, in order of appearance.
//
// A definition starts on a line beginning with #Tag: followed by the tag
// name and an optional parenthesized parameter list. The body is every
// following line up to a line beginning with #EndTag, without the final
// line break. A definition missing its end line extends to the end of text.
func ParseTags(text, source string) []Tag {
	var (
		tags []Tag
		cur  *Tag
		body strings.Builder
	)

	for line := range strings.Lines(text) {
		trimmed := strings.TrimLeft(line, " \t")

		if cur != nil {
			if strings.HasPrefix(trimmed, EndMarker) {
				cur.Body = trimBreak(body.String())
				tags = append(tags, *cur)
				cur = nil

				continue
			}

			body.WriteString(line)

			continue
		}

		if header, ok := strings.CutPrefix(trimmed, DefineMarker); ok {
			name, params := parseHeader(strings.TrimRight(header, "\r\n"))
			if name == "" {
				continue
			}

			cur = &Tag{Name: name, Params: params, Source: source}

			body.Reset()
		}
	}

	if cur != nil {
		cur.Body = trimBreak(body.String())
		tags = append(tags, *cur)
	}

	return tags
}

// FindTag returns the first definition of name in text.
func FindTag(text, source, name string) (Tag, bool) {
	for _, t := range ParseTags(text, source) {
		if t.Name == name {
			return t, true
		}
	}

	return Tag{}, false
}

func parseHeader(s string) (string, []string) {
	name, list, found := strings.Cut(s, "(")
	name = strings.TrimSpace(name)

	if !found {
		return name, nil
	}

	list, _, _ = strings.Cut(list, ")")

	var params []string

	for p := range strings.SplitSeq(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}

	return name, params
}

func trimBreak(s string) string {
	s = strings.TrimSuffix(s, "\n")

	return strings.TrimSuffix(s, "\r")
}

// ParseExtends returns the targets of every #Extends: declaration in text, in
// order of appearance. The target is the rest of the line, trimmed.
func ParseExtends(text string) []string {
	var targets []string

	for line := range strings.Lines(text) {
		_, target, ok := strings.Cut(line, ExtendsMarker)
		if !ok {
			continue
		}

		if target = strings.TrimSpace(target); target != "" {
			targets = append(targets, target)
		}
	}

	return targets
}
