package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/resolve"
)

// Resolve prints the resolved references of declared entities.
type Resolve struct {
	Names  []string `arg:"" help:"Entity names (default: every entity)" optional:""`
	Family string   `       help:"Only entities of this family"          default:""     enum:",scalar,vector,unit"`
	Format string   `       help:"Output format"                         default:"yaml" enum:"yaml,json"`
}

// Run executes the resolve command.
func (r *Resolve) Run(ctx context.Context, in *Inputs) error {
	return r.run(ctx, in, stdout(ctx))
}

func (r *Resolve) run(ctx context.Context, in *Inputs, w io.Writer) error {
	var c diag.Collector

	sink := in.sink(&c)

	store, err := in.load(ctx, sink)
	if err != nil {
		return err
	}

	res := resolve.New(store,
		resolve.WithLogger(log.Default()),
		resolve.WithSink(sink),
	)

	views, err := r.views(store, res)
	if err != nil {
		return err
	}

	var data []byte

	switch r.Format {
	case "json":
		if data, err = json.MarshalIndent(views, "", "  "); err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		data = append(data, '\n')
	default:
		if data, err = yaml.Marshal(views); err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return failOnErrors(&c)
}

// views returns the views of the selected entities in family, then name
// order. A requested name matching no entity fails with suggestions.
func (r *Resolve) views(store *decl.Store, res *resolve.Resolver) ([]resolve.View, error) {
	families := decl.Families()
	if f, ok := decl.ParseFamily(r.Family); ok {
		families = []decl.Family{f}
	}

	found := make(map[string]bool, len(r.Names))
	views := []resolve.View{}

	for _, f := range families {
		for _, name := range store.Names(f) {
			if len(r.Names) > 0 && !slices.Contains(r.Names, name) {
				continue
			}

			found[name] = true

			if f == decl.FamilyUnit {
				u, _ := store.Unit(name)
				views = append(views, res.UnitView(u))
			} else {
				q, _ := store.Quantity(f, name)
				views = append(views, res.View(q))
			}
		}
	}

	for _, name := range r.Names {
		if found[name] {
			continue
		}

		var suggest []string
		for _, f := range families {
			suggest = append(suggest, res.Suggest(f, name)...)
		}

		slices.Sort(suggest)

		return nil, ErrUnknownEntity.With(
			slog.String("name", name),
			slog.Any("suggest", slices.Compact(suggest)),
		)
	}

	return views, nil
}
