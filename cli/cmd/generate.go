package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/gen"
	"github.com/ardnew/unitgen/log"
)

// Generate renders every declared entity into the output directory.
type Generate struct {
	Templates string        `default:"templates" help:"Template directory"                                    short:"t" type:"path"`
	Docs      string        `default:"docs"      help:"Documentation source directory"                                  type:"path"`
	Out       string        `default:"out"       help:"Output directory"                                      short:"o" type:"path"`
	Ext       string        `default:".go"       help:"Extension of generated files"`
	Comment   string        `default:"//"        help:"Line comment prefix of the generated-code header"`
	Force     bool          `                    help:"Write into a non-empty output directory"               short:"f"`
	Jobs      int           `default:"0"         help:"Artifacts generated concurrently (0: one per CPU)"     short:"j"`
	Watch     bool          `                    help:"Regenerate whenever an input changes"                  short:"w"`
	Debounce  time.Duration `default:"250ms"     help:"Quiet period after a change before regenerating"`
}

func (g *Generate) config() gen.Config {
	return gen.Config{
		Templates: g.Templates,
		Docs:      g.Docs,
		Out:       g.Out,
		Ext:       g.Ext,
		Comment:   g.Comment,
		Force:     g.Force,
		Jobs:      g.Jobs,
	}
}

// Run executes the generate command.
func (g *Generate) Run(ctx context.Context, in *Inputs) error {
	cfg := g.config()

	if !g.Watch {
		return g.generate(ctx, in, cfg)
	}

	w := gen.Watcher{
		Dirs:     append(in.roots(), g.Templates, g.Docs),
		Ignore:   []string{g.Out},
		Debounce: g.Debounce,
		Logger:   log.Default(),
	}

	log.InfoContext(ctx, "watching inputs", slog.Any("dirs", w.Dirs))

	return w.Run(ctx, func(ctx context.Context) error {
		err := g.generate(ctx, in, cfg)

		// Once a run got past the output check, the output directory holds
		// our own artifacts.
		if !errors.Is(err, gen.ErrOutputExists) {
			cfg.Force = true
		}

		return err
	})
}

func (g *Generate) generate(ctx context.Context, in *Inputs, cfg gen.Config) error {
	var c diag.Collector

	sink := in.sink(&c)

	store, err := in.load(ctx, sink)
	if err != nil {
		return err
	}

	start := time.Now()

	res, err := gen.New(cfg,
		gen.WithLogger(log.Default()),
		gen.WithSink(sink),
		gen.WithSearch(in.search()...),
		gen.WithPassLimit(in.PassLimit),
	).Run(ctx, store)

	log.InfoContext(ctx, "generation finished",
		slog.Int("written", len(res.Written)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("failed", res.Failed),
		slog.Int("errors", c.Count(diag.Error)),
		slog.Int("warnings", c.Count(diag.Warning)),
		slog.Duration("elapsed", time.Since(start)),
	)

	if err != nil {
		return err
	}

	return failOnErrors(&c)
}
