package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/pkg"
)

// ErrUnresolved is the sentinel wrapped by every failed resolution.
var ErrUnresolved = pkg.NewError("unresolved reference")

// Failure describes one failed lookup. It is the cause wrapped by the
// errors the Resolver returns.
type Failure struct {
	Entity  string      // name of the entity holding the reference
	Field   string      // field holding the reference
	Family  decl.Family // family the reference was expected to resolve in
	Token   string      // textual reference token
	Reason  string
	Suggest []string
}

func (f *Failure) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s.%s", f.Entity, f.Field)

	if f.Token != "" {
		fmt.Fprintf(&b, " (%s)", f.Token)
	}

	b.WriteString(": ")
	b.WriteString(f.Reason)

	if len(f.Suggest) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(f.Suggest, ", "))
	}

	return b.String()
}

func (r *Resolver) fail(entity, field string, family decl.Family, token, reason string) error {
	f := &Failure{
		Entity: entity,
		Field:  field,
		Family: family,
		Token:  token,
		Reason: reason,
	}

	return ErrUnresolved.Wrap(f).With(
		slog.String("entity", entity),
		slog.String("field", field),
		slog.String("token", token),
	)
}

// missing reports that no entity named name exists in family, with
// suggestions drawn from the declared names.
func (r *Resolver) missing(entity, field string, family decl.Family, token, name string) error {
	f := &Failure{
		Entity:  entity,
		Field:   field,
		Family:  family,
		Token:   token,
		Reason:  fmt.Sprintf("no %s named %q", family, name),
		Suggest: r.Suggest(family, name),
	}

	return ErrUnresolved.Wrap(f).With(
		slog.String("entity", entity),
		slog.String("field", field),
		slog.String("token", token),
		slog.String("family", family.String()),
	)
}
