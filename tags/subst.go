package tags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/unitgen/diag"
)

// Placeholder delimiters in a tag body: ${P}, ${P[2]}, ${P[%5]}.
const (
	PlaceholderOpen  = "${"
	PlaceholderClose = "}"
	WrapPrefix       = '%'
)

// placeholder is a parsed ${...} reference.
type placeholder struct {
	param   string
	indexed bool
	wrap    bool
	index   int
}

// parsePlaceholder parses the text between ${ and }.
func parsePlaceholder(s string) (placeholder, bool) {
	name, rest, indexed := strings.Cut(s, "[")

	ph := placeholder{param: strings.TrimSpace(name), indexed: indexed}
	if !isIdentifier(ph.param) {
		return ph, false
	}

	if !indexed {
		return ph, true
	}

	idx, ok := strings.CutSuffix(strings.TrimSpace(rest), "]")
	if !ok {
		return ph, false
	}

	idx = strings.TrimSpace(idx)
	if len(idx) > 0 && idx[0] == WrapPrefix {
		ph.wrap = true
		idx = idx[1:]
	}

	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return ph, false
	}

	ph.index = n

	return ph, true
}

// Substitute replaces the placeholders in t's body with bound values.
//
// A placeholder naming no parameter of t is left verbatim with a warning.
// Every other failure is replaced by its sentinel.
func Substitute(t Tag, b Bindings) (string, []Issue) {
	var (
		out    strings.Builder
		issues []Issue
		body   = t.Body
	)

	for {
		i := strings.Index(body, PlaceholderOpen)
		if i < 0 {
			out.WriteString(body)

			break
		}

		j := strings.Index(body[i+len(PlaceholderOpen):], PlaceholderClose)
		if j < 0 {
			out.WriteString(body)

			break
		}

		inner := body[i+len(PlaceholderOpen) : i+len(PlaceholderOpen)+j]
		whole := body[i : i+len(PlaceholderOpen)+j+len(PlaceholderClose)]

		out.WriteString(body[:i])
		body = body[i+len(whole):]

		ph, ok := parsePlaceholder(inner)
		if !ok {
			out.WriteString(whole)

			continue
		}

		if !t.HasParam(ph.param) {
			issues = append(issues, Issue{
				Kind:  diag.UnknownParameter,
				Param: ph.param,
				Text:  fmt.Sprintf("body of %s references unknown parameter %q", t.Signature(), ph.param),
			})

			out.WriteString(whole)

			continue
		}

		text, issue := value(t, ph, b)
		if issue != nil {
			issues = append(issues, *issue)
		}

		out.WriteString(text)
	}

	return out.String(), issues
}

// value returns the text a valid placeholder is replaced by.
func value(t Tag, ph placeholder, b Bindings) (string, *Issue) {
	subject := t.Name + "." + ph.param

	v, ok := b[ph.param]
	if !ok {
		return Sentinel(diag.ParameterUnbound, subject), &Issue{
			Kind:  diag.ParameterUnbound,
			Param: ph.param,
			Text:  fmt.Sprintf("parameter %s of %s is unbound", ph.param, t.Name),
		}
	}

	if !ph.indexed {
		return v, nil
	}

	items, ok := SplitList(v)
	if !ok {
		return Sentinel(diag.ParameterNotArray, subject), &Issue{
			Kind:  diag.ParameterNotArray,
			Param: ph.param,
			Text:  fmt.Sprintf("parameter %s of %s is not a list: %q", ph.param, t.Name, v),
		}
	}

	i := ph.index
	if ph.wrap && len(items) > 0 {
		i %= len(items)
	}

	if i >= len(items) {
		return Sentinel(diag.IndexOutOfBounds, subject+"["+strconv.Itoa(ph.index)+"]"), &Issue{
			Kind:  diag.IndexOutOfBounds,
			Param: ph.param,
			Text: fmt.Sprintf("index %d of parameter %s of %s is out of bounds (length %d)",
				ph.index, ph.param, t.Name, len(items)),
		}
	}

	return items[i], nil
}

// Sentinel returns the error token for a defect of kind k. Invocation markers
// are removed from subject so the token is never expanded again.
func Sentinel(k diag.Kind, subject string) string {
	for strings.Contains(subject, Marker) {
		subject = strings.ReplaceAll(subject, Marker, "")
	}

	return diag.Sentinel(k, subject)
}
