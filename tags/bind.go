package tags

import (
	"fmt"

	"github.com/ardnew/unitgen/diag"
)

// Bindings maps a tag's formal parameter names to argument text.
type Bindings map[string]string

// Issue is a problem found while binding arguments or substituting
// placeholders.
type Issue struct {
	Kind  diag.Kind
	Param string
	Text  string
}

// bindError is an unrecoverable binding failure.
type bindError struct {
	kind diag.Kind
	msg  string
}

func (e *bindError) Error() string { return e.msg }

// Bind matches args to the formal parameters of t.
//
//   - all named: bind by name; fewer arguments than parameters fails
//   - none named: the count must equal the parameter count; bind in order
//   - mixed: the count must equal the parameter count; named arguments bind
//     first, then a single unbound parameter takes the single unnamed
//     argument, or else each unbound parameter takes the unnamed argument in
//     its own positional slot. A slot holding a named argument fails.
//
// Named arguments that match no parameter are ignored with a warning.
func Bind(t Tag, args []Arg) (Bindings, []Issue, error) {
	var named, unnamed []Arg

	for _, a := range args {
		if a.Named() {
			named = append(named, a)
		} else {
			unnamed = append(unnamed, a)
		}
	}

	b := make(Bindings, len(t.Params))

	var issues []Issue

	bindNamed := func() {
		for _, a := range named {
			if !t.HasParam(a.Name) {
				issues = append(issues, Issue{
					Kind:  diag.UnknownParameter,
					Param: a.Name,
					Text:  fmt.Sprintf("%s has no parameter %q", t.Signature(), a.Name),
				})

				continue
			}

			b[a.Name] = a.Value
		}
	}

	countError := func() error {
		return &bindError{
			kind: diag.ArgumentCountError,
			msg: fmt.Sprintf("%s takes %d arguments, got %d",
				t.Signature(), len(t.Params), len(args)),
		}
	}

	switch {
	case len(unnamed) == 0:
		if len(args) < len(t.Params) {
			return nil, issues, countError()
		}

		bindNamed()

	case len(named) == 0:
		if len(args) != len(t.Params) {
			return nil, issues, countError()
		}

		for i, p := range t.Params {
			b[p] = args[i].Value
		}

	default:
		if len(args) != len(t.Params) {
			return nil, issues, countError()
		}

		bindNamed()

		var unbound []int

		for i, p := range t.Params {
			if _, ok := b[p]; !ok {
				unbound = append(unbound, i)
			}
		}

		if len(unbound) == 1 && len(unnamed) == 1 {
			p := t.Params[unbound[0]]
			b[p] = unnamed[0].Value

			issues = append(issues, Issue{
				Kind:  diag.ArgumentRescued,
				Param: p,
				Text:  fmt.Sprintf("bound unnamed argument %q to %s", unnamed[0].Value, p),
			})

			break
		}

		for _, i := range unbound {
			if args[i].Named() {
				return nil, issues, &bindError{
					kind: diag.ArgumentMatchingError,
					msg: fmt.Sprintf("%s: slot %d of unbound parameter %s holds named argument %s",
						t.Signature(), i, t.Params[i], args[i].Name),
				}
			}

			b[t.Params[i]] = args[i].Value
		}
	}

	return b, issues, nil
}
