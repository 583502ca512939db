package gen

import (
	"log/slog"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/resolve"
)

// TemplateExt is the file extension of generator templates.
const TemplateExt = ".tmpl"

// TemplateName returns the name of the template rendering entities of
// family f, such as "scalar.tmpl".
func TemplateName(f decl.Family) string { return f.String() + TemplateExt }

// Data is the value a template is executed with. Exactly one of Scalar,
// Vector and Unit is set.
type Data struct {
	Family string
	Name   string
	Entity any
	Scalar *decl.Scalar
	Vector *decl.Vector
	Unit   *decl.Unit
	View   resolve.View
}

// ParseTemplates parses every template below dir. Templates other than the
// per-family ones are available to them as partials, named by base name.
//
// The returned map holds one template per family that has one.
func ParseTemplates(dir string, funcs template.FuncMap) (map[decl.Family]*template.Template, error) {
	files, err := doublestar.FilepathGlob(
		filepath.Join(dir, "**", "*"+TemplateExt),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("dir", dir))
	}

	out := make(map[decl.Family]*template.Template)
	if len(files) == 0 {
		return out, nil
	}

	root, err := template.New(pkg.Name).Funcs(funcs).Option("missingkey=error").ParseFiles(files...)
	if err != nil {
		return nil, ErrTemplate.Wrap(err).With(slog.String("dir", dir))
	}

	for _, f := range decl.Families() {
		if t := root.Lookup(TemplateName(f)); t != nil {
			out[f] = t
		}
	}

	return out, nil
}

// Funcs returns the template functions resolving references through r.
// A failed resolution renders the UnresolvedReference sentinel; the failure
// itself is reported by the entity's [resolve.View].
func Funcs(r *resolve.Resolver) template.FuncMap {
	fail := func(name, field string) string {
		return diag.Sentinel(diag.UnresolvedReference, name+"."+field)
	}

	entries := func(field string, get func(decl.Quantity) ([]decl.Entry, error)) func(decl.Quantity) []decl.Entry {
		return func(q decl.Quantity) []decl.Entry {
			es, err := get(q)
			if err != nil {
				return []decl.Entry{{Name: fail(q.Common().Name, field)}}
			}

			return es
		}
	}

	return template.FuncMap{
		"unit": func(q decl.Quantity) string {
			u, err := r.Unit(q)
			if err != nil {
				return fail(q.Common().Name, "unit")
			}

			return u.Name
		},
		"units":     entries("units", r.Units),
		"bases":     entries("bases", r.Bases),
		"constants": entries("constants", r.Constants),
		"defaultUnit": func(q decl.Quantity) string {
			e, err := r.DefaultUnit(q)
			if err != nil {
				return fail(q.Common().Name, "defaultUnit")
			}

			return e.Name
		},
		"vector": func(s *decl.Scalar) string {
			v, err := r.Vector(s)
			if err != nil {
				return fail(s.Name, "vector")
			}

			return v.Name
		},
		"component": func(v *decl.Vector) string {
			s, err := r.Component(v)
			if err != nil {
				return fail(v.Name, "component")
			}

			return s.Name
		},
		"convertibles": func(q decl.Quantity) []string {
			qs, err := r.Convertibles(q)

			out := make([]string, 0, len(qs))
			for _, c := range qs {
				out = append(out, c.Common().Name)
			}

			if err != nil {
				out = append(out, fail(q.Common().Name, "convertible"))
			}

			return out
		},
		"powers": func(s *decl.Scalar) map[string][]string {
			p, _ := r.Powers(s) // failures are carried by p.Unresolved

			return p.Names(s.Name)
		},
		"owner": func(u *decl.Unit) string {
			q, err := r.Owner(u)
			if err != nil {
				return fail(u.Name, "quantity")
			}

			return q.Common().Name
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"join": func(sep string, elems []string) string {
			return strings.Join(elems, sep)
		},
	}
}
