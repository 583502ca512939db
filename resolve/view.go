package resolve

import (
	"log/slog"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
)

// View is the flattened, serializable result of resolving every reference of
// one entity. A field whose resolution failed holds the UnresolvedReference
// sentinel, and the failure is reported to the Resolver's sink.
type View struct {
	Family      string   `json:"family"                yaml:"family"`
	Name        string   `json:"name"                  yaml:"name"`
	Biased      bool     `json:"biased,omitempty"      yaml:"biased,omitempty"`
	Unit        string   `json:"unit,omitempty"        yaml:"unit,omitempty"`
	DefaultUnit string   `json:"defaultUnit,omitempty" yaml:"defaultUnit,omitempty"`
	Units       []string `json:"units,omitempty"       yaml:"units,omitempty"`
	Bases       []string `json:"bases,omitempty"       yaml:"bases,omitempty"`
	Constants   []string `json:"constants,omitempty"   yaml:"constants,omitempty"`
	Vector      string   `json:"vector,omitempty"      yaml:"vector,omitempty"`
	Component   string   `json:"component,omitempty"   yaml:"component,omitempty"`
	Dimensions  []int    `json:"dimensions,omitempty"  yaml:"dimensions,omitempty,flow"`
	Convertible []string `json:"convertible,omitempty" yaml:"convertible,omitempty"`
	Inverse     []string `json:"inverse,omitempty"     yaml:"inverse,omitempty"`
	Square      []string `json:"square,omitempty"      yaml:"square,omitempty"`
	Cube        []string `json:"cube,omitempty"        yaml:"cube,omitempty"`
	SquareRoot  []string `json:"squareRoot,omitempty"  yaml:"squareRoot,omitempty"`
	CubeRoot    []string `json:"cubeRoot,omitempty"    yaml:"cubeRoot,omitempty"`
	Owner       string   `json:"owner,omitempty"       yaml:"owner,omitempty"`
	Unbiased    string   `json:"unbiased,omitempty"    yaml:"unbiased,omitempty"`
	Formulas    []string `json:"formulas,omitempty"    yaml:"formulas,omitempty"`

	// Failed counts the fields holding a sentinel.
	Failed int `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// View resolves every reference of quantity q.
func (r *Resolver) View(q decl.Quantity) View {
	m := q.Common()
	v := View{
		Family: q.Family().String(),
		Name:   m.Name,
		Biased: m.Biased,
	}

	if u, err := r.Unit(q); r.check(&v, "unit", err) {
		v.Unit = u.Name

		if e, err := r.DefaultUnit(q); r.check(&v, "defaultUnit", err) {
			v.DefaultUnit = e.Name
		} else {
			v.DefaultUnit = r.sentinel(&v, "defaultUnit")
		}

		v.Units = r.entries(&v, "units", r.Units, q)
		v.Bases = r.entries(&v, "bases", r.Bases, q)
		v.Constants = r.entries(&v, "constants", r.Constants, q)
	} else {
		// Everything below depends on the unit; its failure is reported once.
		v.Unit = r.sentinel(&v, "unit")
		v.DefaultUnit = r.sentinel(&v, "defaultUnit")
		v.Units = []string{r.sentinel(&v, "units")}
		v.Bases = []string{r.sentinel(&v, "bases")}
		v.Constants = []string{r.sentinel(&v, "constants")}
	}

	qs, err := r.Convertibles(q)
	v.Convertible = r.names(&v, "convertible", qs, err)

	switch t := q.(type) {
	case *decl.Scalar:
		if !t.Vector.IsZero() {
			if vec, err := r.Vector(t); r.check(&v, "vector", err) {
				v.Vector = vec.Name
			} else {
				v.Vector = r.sentinel(&v, "vector")
			}
		}

		p, err := r.Powers(t)
		r.check(&v, "powers", err)

		names := p.Names(v.Name)
		v.Inverse = names["inverse"]
		v.Square = names["square"]
		v.Cube = names["cube"]
		v.SquareRoot = names["squareRoot"]
		v.CubeRoot = names["cubeRoot"]
		v.Failed += len(p.Unresolved)

	case *decl.Vector:
		v.Dimensions = t.Dimensions

		if s, err := r.Component(t); r.check(&v, "component", err) {
			v.Component = s.Name
		} else {
			v.Component = r.sentinel(&v, "component")
		}
	}

	return v
}

// UnitView resolves every reference of unit u.
func (r *Resolver) UnitView(u *decl.Unit) View {
	v := View{
		Family:    decl.FamilyUnit.String(),
		Name:      u.Name,
		Biased:    u.Biased,
		Units:     entryNames(u.Units),
		Constants: entryNames(u.Constants),
	}

	if q, err := r.Owner(u); r.check(&v, "quantity", err) {
		v.Owner = q.Common().Name
	} else {
		v.Owner = r.sentinel(&v, "quantity")
	}

	if q, err := r.Unbiased(u); r.check(&v, "unbiased", err) {
		if q != nil {
			v.Unbiased = q.Common().Name
		}
	} else {
		v.Unbiased = r.sentinel(&v, "unbiased")
	}

	for _, f := range u.Formulas {
		v.Formulas = append(v.Formulas, f.String())
	}

	return v
}

// check reports err, if any, against v and returns whether err is nil.
func (r *Resolver) check(v *View, field string, err error) bool {
	if err == nil {
		return true
	}

	for _, e := range unjoin(err) {
		r.sink.Report(diag.Record{
			Severity: diag.Error,
			Kind:     diag.UnresolvedReference,
			Message:  e.Error(),
			Entity:   v.Name,
			Source:   r.store.Origin(familyOf(v.Family), v.Name),
		})
	}

	r.logger.Debug("resolution failed", slog.String("field", v.Name+"."+field))

	return false
}

func (r *Resolver) sentinel(v *View, field string) string {
	v.Failed++

	return diag.Sentinel(diag.UnresolvedReference, v.Name+"."+field)
}

func (r *Resolver) entries(
	v *View, field string, get func(decl.Quantity) ([]decl.Entry, error), q decl.Quantity,
) []string {
	es, err := get(q)
	if !r.check(v, field, err) {
		return []string{r.sentinel(v, field)}
	}

	return entryNames(es)
}

func (r *Resolver) names(v *View, field string, qs []decl.Quantity, err error) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.Common().Name)
	}

	if !r.check(v, field, err) {
		out = append(out, r.sentinel(v, field))
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

func entryNames(entries []decl.Entry) []string {
	if len(entries) == 0 {
		return nil
	}

	out := make([]string, len(entries))

	for i, e := range entries {
		if e.Separator {
			out[i] = decl.Separator
		} else {
			out[i] = e.Name
		}
	}

	return out
}

func scalarNames(qs []*decl.Scalar) []string {
	var out []string
	for _, q := range qs {
		out = append(out, q.Name)
	}

	return out
}

func familyOf(name string) decl.Family {
	f, _ := decl.ParseFamily(name)

	return f
}

// unjoin flattens errors produced by [errors.Join].
func unjoin(err error) []error {
	j, ok := err.(interface{ Unwrap() []error }) //nolint:errorlint
	if !ok {
		return []error{err}
	}

	var out []error
	for _, e := range j.Unwrap() {
		out = append(out, unjoin(e)...)
	}

	return out
}
