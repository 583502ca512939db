package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/unitgen/tags"
)

// call is the invocation whose argument list holds the cursor.
type call struct {
	name     string // tag name
	argIndex int    // 0-based index of the argument under the cursor
	inCall   bool
}

// detectCall finds the innermost invocation whose unclosed argument list
// contains cursor.
func detectCall(input string, cursor int) call {
	cursor = min(cursor, len(input))

	open := -1
	depth := 0

	for i := cursor - 1; i >= 0 && open < 0; i-- {
		switch input[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i
			} else {
				depth--
			}
		}
	}

	if open < 0 {
		return call{}
	}

	start := open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}

		start -= size
	}

	name := input[start:open]
	if name == "" || !strings.HasSuffix(input[:start], tags.Marker) {
		return call{}
	}

	// Nested invocations in arguments are skipped by depth; brackets group
	// list arguments.
	c := call{name: name, inCall: true}
	depth = 0

	for i := open + 1; i < cursor; i++ {
		switch input[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				c.argIndex++
			}
		}
	}

	return c
}

// renderSignatureHint renders the definition header of t with the parameter
// at argIndex highlighted.
func renderSignatureHint(t tags.Tag, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(t.Name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range t.Params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		if i == argIndex {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	if argIndex >= max(len(t.Params), 1) {
		b.WriteString(hintStyle.Render("  too many arguments"))
	}

	if t.Source != "" {
		b.WriteString(hintStyle.Render("  " + t.Source))
	}

	return b.String()
}
