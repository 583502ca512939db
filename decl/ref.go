package decl

import (
	"fmt"
	"strings"
)

// RefKind classifies a [Ref].
type RefKind int

const (
	RefNone      RefKind = iota // none
	RefLiteral                  // literal
	RefSelf                     // self
	RefComponent                // component
	RefAlias                    // alias
)

// Reserved reference token texts.
const (
	SelfToken      = "$self"
	ComponentToken = "$component"
)

// Ref is a reference token: a compact textual pointer from one entity to
// another.
//
//   - literal     the name of an entity of the expected family
//   - $self       the entity sharing the referencing entity's name
//   - $component  delegate to the scalar component of a vector
//   - [Name]      the same field of quantity Name, resolved recursively
//
// The zero value is [RefNone], meaning the field was absent.
type Ref struct {
	Kind RefKind
	Name string
}

// ParseRef parses the textual form of a reference token.
func ParseRef(s string) Ref {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return Ref{}

	case s == SelfToken:
		return Ref{Kind: RefSelf}

	case s == ComponentToken:
		return Ref{Kind: RefComponent}

	case len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']':
		name := strings.TrimSpace(s[1 : len(s)-1])
		if name == "" {
			return Ref{}
		}

		return Ref{Kind: RefAlias, Name: name}

	default:
		return Ref{Kind: RefLiteral, Name: s}
	}
}

// Literal returns a literal reference to name.
func Literal(name string) Ref { return Ref{Kind: RefLiteral, Name: name} }

// Alias returns a bracket-wrapped alias reference to name.
func Alias(name string) Ref { return Ref{Kind: RefAlias, Name: name} }

// IsZero reports whether r is absent.
func (r Ref) IsZero() bool { return r.Kind == RefNone }

// String returns the textual form of r, which [ParseRef] parses back to r.
func (r Ref) String() string {
	switch r.Kind {
	case RefSelf:
		return SelfToken
	case RefComponent:
		return ComponentToken
	case RefAlias:
		return "[" + r.Name + "]"
	case RefLiteral:
		return r.Name
	default:
		return ""
	}
}

// Target returns the name r points at given the name of the referencing
// entity, or "" for [RefComponent] and [RefNone].
func (r Ref) Target(self string) string {
	switch r.Kind {
	case RefSelf:
		return self
	case RefLiteral, RefAlias:
		return r.Name
	default:
		return ""
	}
}

// UnmarshalYAML decodes a reference token from a YAML scalar.
//
// An unquoted bracket token such as [Length] is a YAML flow sequence; a
// sequence holding exactly one string is accepted as the alias it was meant
// to be.
func (r *Ref) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*r = Ref{}

	case string:
		*r = ParseRef(t)

	case []any:
		if len(t) != 1 {
			return ErrInvalidRef.Wrap(fmt.Errorf("alias list has %d elements", len(t)))
		}

		name, ok := t[0].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return ErrInvalidRef.Wrap(fmt.Errorf("alias %v is not a name", t[0]))
		}

		*r = Alias(strings.TrimSpace(name))

	default:
		*r = ParseRef(fmt.Sprint(t))
	}

	return nil
}

// MarshalYAML encodes r as its textual form.
func (r Ref) MarshalYAML() (any, error) {
	return r.String(), nil
}
