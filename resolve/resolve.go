package resolve

import (
	"errors"
	"log/slog"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
)

// MaxSuggestions bounds the names offered by [Resolver.Suggest].
const MaxSuggestions = 3

// Resolver resolves reference tokens against a [decl.Store].
type Resolver struct {
	store  *decl.Store
	logger log.Logger
	sink   diag.Sink
}

// Option configures a [Resolver].
type Option func(Resolver) Resolver

// WithLogger sets the logger used for trace events.
func WithLogger(logger log.Logger) Option {
	return func(r Resolver) Resolver {
		r.logger = logger

		return r
	}
}

// WithSink sets the sink [Resolver.View] reports failed fields to.
func WithSink(sink diag.Sink) Option {
	return func(r Resolver) Resolver {
		r.sink = sink

		return r
	}
}

// New returns a Resolver over store.
func New(store *decl.Store, opts ...Option) *Resolver {
	r := Resolver{store: store}

	for _, opt := range opts {
		if opt != nil {
			r = opt(r)
		}
	}

	r.sink = diag.Or(r.sink)

	return &r
}

// Store returns the store r resolves against.
func (r *Resolver) Store() *decl.Store { return r.store }

// chain is the set of entities currently being resolved by one call.
type chain map[string]struct{}

// enter adds the entity to c, failing if it is already present.
func (c chain) enter(r *Resolver, q decl.Quantity, field string) error {
	key := q.Family().String() + "/" + q.Common().Name + "." + field
	if _, ok := c[key]; ok {
		return r.fail(q.Common().Name, field, q.Family(), "",
			"reference cycle through "+key)
	}

	c[key] = struct{}{}

	return nil
}

// Unit returns the unit q is measured in.
func (r *Resolver) Unit(q decl.Quantity) (*decl.Unit, error) {
	u, err := r.unit(q, chain{})
	if err == nil {
		r.logger.Trace("resolved unit",
			slog.String("quantity", q.Common().Name),
			slog.String("unit", u.Name),
		)
	}

	return u, err
}

func (r *Resolver) unit(q decl.Quantity, seen chain) (*decl.Unit, error) {
	if err := seen.enter(r, q, "unit"); err != nil {
		return nil, err
	}

	m := q.Common()
	ref := m.Unit

	switch ref.Kind {
	case decl.RefSelf, decl.RefLiteral:
		name := ref.Target(m.Name)
		if u, ok := r.store.Unit(name); ok {
			return u, nil
		}

		return nil, r.missing(m.Name, "unit", decl.FamilyUnit, ref.String(), name)

	case decl.RefComponent:
		s, err := r.componentOf(q, "unit")
		if err != nil {
			return nil, err
		}

		return r.unit(s, seen)

	case decl.RefAlias:
		next, err := r.alias(q, "unit", ref)
		if err != nil {
			return nil, err
		}

		return r.unit(next, seen)

	default:
		return nil, r.fail(m.Name, "unit", decl.FamilyUnit, "", "no unit declared")
	}
}

// alias returns the quantity of q's family a bracket token names.
func (r *Resolver) alias(q decl.Quantity, field string, ref decl.Ref) (decl.Quantity, error) {
	if next, ok := r.store.Quantity(q.Family(), ref.Name); ok {
		return next, nil
	}

	return nil, r.missing(q.Common().Name, field, q.Family(), ref.String(), ref.Name)
}

// componentOf returns the scalar component of q for a $component token found
// in field. q must be a vector whose own component is not $component.
func (r *Resolver) componentOf(q decl.Quantity, field string) (*decl.Scalar, error) {
	v, ok := q.(*decl.Vector)
	if !ok {
		return nil, r.fail(q.Common().Name, field, q.Family(), decl.ComponentToken,
			"component delegation on a non-vector quantity")
	}

	return r.Component(v)
}

// Component returns the scalar component of v.
func (r *Resolver) Component(v *decl.Vector) (*decl.Scalar, error) {
	return r.component(v, chain{})
}

func (r *Resolver) component(v *decl.Vector, seen chain) (*decl.Scalar, error) {
	if err := seen.enter(r, v, "component"); err != nil {
		return nil, err
	}

	ref := v.Component

	switch ref.Kind {
	case decl.RefSelf, decl.RefLiteral:
		name := ref.Target(v.Name)
		if s, ok := r.store.Scalar(name); ok {
			return s, nil
		}

		return nil, r.missing(v.Name, "component", decl.FamilyScalar, ref.String(), name)

	case decl.RefComponent:
		return nil, r.fail(v.Name, "component", decl.FamilyScalar, ref.String(),
			"component refers to itself")

	case decl.RefAlias:
		next, ok := r.store.Vector(ref.Name)
		if !ok {
			return nil, r.missing(v.Name, "component", decl.FamilyVector, ref.String(), ref.Name)
		}

		return r.component(next, seen)

	default:
		return nil, r.fail(v.Name, "component", decl.FamilyScalar, "", "no component declared")
	}
}

// Vector returns the vector counterpart of s.
func (r *Resolver) Vector(s *decl.Scalar) (*decl.Vector, error) {
	return r.vector(s, chain{})
}

func (r *Resolver) vector(s *decl.Scalar, seen chain) (*decl.Vector, error) {
	if err := seen.enter(r, s, "vector"); err != nil {
		return nil, err
	}

	ref := s.Vector

	switch ref.Kind {
	case decl.RefSelf, decl.RefLiteral:
		name := ref.Target(s.Name)
		if v, ok := r.store.Vector(name); ok {
			return v, nil
		}

		return nil, r.missing(s.Name, "vector", decl.FamilyVector, ref.String(), name)

	case decl.RefAlias:
		next, ok := r.store.Scalar(ref.Name)
		if !ok {
			return nil, r.missing(s.Name, "vector", decl.FamilyScalar, ref.String(), ref.Name)
		}

		return r.vector(next, seen)

	default:
		return nil, r.fail(s.Name, "vector", decl.FamilyVector, ref.String(), "no vector counterpart")
	}
}

// Units returns q's unit entries after its units filter.
func (r *Resolver) Units(q decl.Quantity) ([]decl.Entry, error) {
	u, err := r.Unit(q)
	if err != nil {
		return nil, err
	}

	return Filter(u.Units, q.Common().Units), nil
}

// Bases returns the entries of [Resolver.Units] that also survive q's bases
// filter.
func (r *Resolver) Bases(q decl.Quantity) ([]decl.Entry, error) {
	units, err := r.Units(q)
	if err != nil {
		return nil, err
	}

	return Filter(units, q.Common().Bases), nil
}

// Constants returns q's unit constants after its constants filter.
func (r *Resolver) Constants(q decl.Quantity) ([]decl.Entry, error) {
	u, err := r.Unit(q)
	if err != nil {
		return nil, err
	}

	return Filter(u.Constants, q.Common().Constants), nil
}

// DefaultUnit returns the entry q's values default to.
//
// Without an explicit default this is the entry flagged as the base unit.
// An explicit name must survive q's units filter.
func (r *Resolver) DefaultUnit(q decl.Quantity) (decl.Entry, error) {
	return r.defaultUnit(q, chain{})
}

func (r *Resolver) defaultUnit(q decl.Quantity, seen chain) (decl.Entry, error) {
	if err := seen.enter(r, q, "defaultUnit"); err != nil {
		return decl.Entry{}, err
	}

	m := q.Common()
	ref := m.DefaultUnit

	switch ref.Kind {
	case decl.RefComponent:
		s, err := r.componentOf(q, "defaultUnit")
		if err != nil {
			return decl.Entry{}, err
		}

		return r.defaultUnit(s, seen)

	case decl.RefAlias:
		next, err := r.alias(q, "defaultUnit", ref)
		if err != nil {
			return decl.Entry{}, err
		}

		return r.defaultUnit(next, seen)
	}

	units, err := r.Units(q)
	if err != nil {
		return decl.Entry{}, err
	}

	if ref.IsZero() {
		for _, e := range units {
			if !e.Separator && e.Base {
				return e, nil
			}
		}

		return decl.Entry{}, r.fail(m.Name, "defaultUnit", decl.FamilyUnit, "",
			"no base unit among the filtered units")
	}

	name := ref.Target(m.Name)

	for _, e := range units {
		if !e.Separator && e.Name == name {
			return e, nil
		}
	}

	return decl.Entry{}, r.fail(m.Name, "defaultUnit", decl.FamilyUnit, ref.String(),
		"default unit "+name+" is not among the filtered units")
}

// Convertibles returns the quantities q converts to, in declaration order.
// Names that do not resolve are skipped and reported in the joined error.
func (r *Resolver) Convertibles(q decl.Quantity) ([]decl.Quantity, error) {
	m := q.Common()

	return r.quantities(m.Name, "convertible", q.Family(), m.Convertible)
}

func (r *Resolver) quantities(
	entity, field string, family decl.Family, names []string,
) ([]decl.Quantity, error) {
	out := make([]decl.Quantity, 0, len(names))

	var errs []error

	for _, name := range names {
		if q, ok := r.store.Quantity(family, name); ok {
			out = append(out, q)
		} else {
			errs = append(errs, r.missing(entity, field, family, name, name))
		}
	}

	return out, errors.Join(errs...)
}

// Powers are the scalar quantities related to a scalar by a power.
type Powers struct {
	Inverse    []*decl.Scalar
	Square     []*decl.Scalar
	Cube       []*decl.Scalar
	SquareRoot []*decl.Scalar
	CubeRoot   []*decl.Scalar

	// Unresolved holds the fields of the relations naming an undeclared
	// scalar, such as "square".
	Unresolved []string
}

// Names returns the scalar names of each relation keyed by field. A relation
// naming an undeclared scalar ends with the UnresolvedReference sentinel of
// entity.field.
func (p Powers) Names(entity string) map[string][]string {
	out := map[string][]string{
		"inverse":    scalarNames(p.Inverse),
		"square":     scalarNames(p.Square),
		"cube":       scalarNames(p.Cube),
		"squareRoot": scalarNames(p.SquareRoot),
		"cubeRoot":   scalarNames(p.CubeRoot),
	}

	for _, field := range p.Unresolved {
		out[field] = append(out[field], diag.Sentinel(diag.UnresolvedReference, entity+"."+field))
	}

	return out
}

// Powers resolves the power-relation lists of s.
func (r *Resolver) Powers(s *decl.Scalar) (Powers, error) {
	var (
		p    Powers
		errs []error
	)

	for _, rel := range []struct {
		field string
		names []string
		dst   *[]*decl.Scalar
	}{
		{"inverse", s.Inverse, &p.Inverse},
		{"square", s.Square, &p.Square},
		{"cube", s.Cube, &p.Cube},
		{"squareRoot", s.SquareRoot, &p.SquareRoot},
		{"cubeRoot", s.CubeRoot, &p.CubeRoot},
	} {
		qs, err := r.quantities(s.Name, rel.field, decl.FamilyScalar, rel.names)
		if err != nil {
			errs = append(errs, err)
			p.Unresolved = append(p.Unresolved, rel.field)
		}

		for _, q := range qs {
			*rel.dst = append(*rel.dst, q.(*decl.Scalar))
		}
	}

	return p, errors.Join(errs...)
}

// Owner returns the quantity that owns unit u.
func (r *Resolver) Owner(u *decl.Unit) (decl.Quantity, error) {
	return r.unitQuantity(u, "quantity", func(u *decl.Unit) decl.Ref { return u.Quantity }, chain{})
}

// Unbiased returns the unbiased counterpart quantity of a biased unit u,
// or nil if u is not biased.
func (r *Resolver) Unbiased(u *decl.Unit) (decl.Quantity, error) {
	if !u.Biased {
		return nil, nil //nolint:nilnil
	}

	return r.unitQuantity(u, "unbiased", func(u *decl.Unit) decl.Ref { return u.Unbiased }, chain{})
}

// unitQuantity resolves a quantity-valued field of a unit. A bracket token
// delegates to the same field of the named unit.
func (r *Resolver) unitQuantity(
	u *decl.Unit, field string, get func(*decl.Unit) decl.Ref, seen chain,
) (decl.Quantity, error) {
	key := "unit/" + u.Name + "." + field
	if _, ok := seen[key]; ok {
		return nil, r.fail(u.Name, field, decl.FamilyUnit, "", "reference cycle through "+key)
	}

	seen[key] = struct{}{}

	ref := get(u)

	switch ref.Kind {
	case decl.RefSelf, decl.RefLiteral:
		name := ref.Target(u.Name)

		for _, f := range []decl.Family{decl.FamilyScalar, decl.FamilyVector} {
			if q, ok := r.store.Quantity(f, name); ok {
				return q, nil
			}
		}

		return nil, r.missing(u.Name, field, decl.FamilyScalar, ref.String(), name)

	case decl.RefAlias:
		next, ok := r.store.Unit(ref.Name)
		if !ok {
			return nil, r.missing(u.Name, field, decl.FamilyUnit, ref.String(), ref.Name)
		}

		return r.unitQuantity(next, field, get, seen)

	default:
		return nil, r.fail(u.Name, field, decl.FamilyScalar, ref.String(), "no quantity declared")
	}
}

// Suggest returns up to [MaxSuggestions] declared names in family that
// fuzzily match name, best first.
func (r *Resolver) Suggest(family decl.Family, name string) []string {
	if name == "" {
		return nil
	}

	matches := fuzzy.Find(name, r.store.Names(family))

	out := make([]string, 0, min(len(matches), MaxSuggestions))
	for _, m := range matches {
		if len(out) == MaxSuggestions {
			break
		}

		out = append(out, m.Str)
	}

	return out
}
