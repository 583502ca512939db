package gen

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"text/template"

	"github.com/goccy/go-yaml"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/resolve"
	"github.com/ardnew/unitgen/tags"
)

// Defaults of [Config].
const (
	DefaultExt     = ".go"
	DefaultComment = "//"
	DocExt         = ".doc"
)

// Config selects the inputs and outputs of a generation run.
type Config struct {
	Templates string // directory holding <family>.tmpl and partials
	Docs      string // documentation source root
	Out       string // output root
	Ext       string // output file extension
	Comment   string // line comment prefix of the generated header
	Force     bool   // write into a non-empty output directory
	Jobs      int    // concurrent artifacts; below 1 selects GOMAXPROCS
}

// Generator renders every declared entity through its family template,
// expands documentation tags in the result and writes one artifact per
// entity.
type Generator struct {
	cfg       Config
	logger    log.Logger
	sink      diag.Sink
	search    []string
	passLimit int
}

// Option configures a [Generator].
type Option func(Generator) Generator

// WithLogger sets the logger of the generator and of the resolver and engine
// it creates.
func WithLogger(logger log.Logger) Option {
	return func(g Generator) Generator {
		g.logger = logger

		return g
	}
}

// WithSink sets the sink receiving every diagnostic of a run.
func WithSink(sink diag.Sink) Option {
	return func(g Generator) Generator {
		g.sink = sink

		return g
	}
}

// WithSearch sets the directories searched for documentation sources that
// are not found relative to the working directory.
func WithSearch(dirs ...string) Option {
	return func(g Generator) Generator {
		g.search = dirs

		return g
	}
}

// WithPassLimit sets the expansion pass limit.
func WithPassLimit(n int) Option {
	return func(g Generator) Generator {
		g.passLimit = n

		return g
	}
}

// New returns a Generator for cfg.
func New(cfg Config, opts ...Option) *Generator {
	g := Generator{cfg: cfg}

	for _, opt := range opts {
		if opt != nil {
			g = opt(g)
		}
	}

	if g.cfg.Ext == "" {
		g.cfg.Ext = DefaultExt
	}

	if g.cfg.Comment == "" {
		g.cfg.Comment = DefaultComment
	}

	if g.cfg.Jobs < 1 {
		g.cfg.Jobs = runtime.GOMAXPROCS(0)
	}

	g.sink = diag.Or(g.sink)

	return &g
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Result summarizes a generation run.
type Result struct {
	Written []string // artifact paths, sorted
	Skipped []string // entities whose family has no template
	Failed  int      // artifacts not written
}

// job is one entity to generate.
type job struct {
	family decl.Family
	name   string
	entity any
}

// run is the state shared by the artifacts of one call to [Generator.Run].
type run struct {
	*Generator

	resolver  *resolve.Resolver
	engine    *tags.Engine
	sources   tags.Sources
	templates map[decl.Family]*template.Template

	mu     sync.Mutex
	result Result
	errs   []error
}

// Run generates every entity in store. Each run starts from scratch: the
// documentation cache lives only for the run.
//
// A failing artifact does not stop the others. The returned error joins the
// failures of every artifact not written.
func (g *Generator) Run(ctx context.Context, store *decl.Store) (Result, error) {
	if err := checkOut(g.cfg.Out, g.cfg.Force); err != nil {
		return Result{}, err
	}

	cache := tags.NewCachedSources(tags.FileSources{Search: g.search, Logger: g.logger}, g.logger)
	defer cache.Close()

	r := &run{
		Generator: g,
		resolver:  resolve.New(store, resolve.WithLogger(g.logger), resolve.WithSink(g.sink)),
		sources:   cache,
	}

	r.engine = tags.New(cache,
		tags.WithLogger(g.logger),
		tags.WithSink(g.sink),
		tags.WithPassLimit(g.passLimit),
	)

	var err error

	r.templates, err = ParseTemplates(g.cfg.Templates, Funcs(r.resolver))
	if err != nil {
		return Result{}, err
	}

	var eg errgroup.Group

	eg.SetLimit(g.cfg.Jobs)

	for _, j := range jobs(store) {
		t, ok := r.templates[j.family]
		if !ok {
			r.result.Skipped = append(r.result.Skipped, j.family.String()+"/"+j.name)

			continue
		}

		eg.Go(func() error {
			r.artifact(ctx, t, j)

			return nil
		})
	}

	_ = eg.Wait()

	slices.Sort(r.result.Written)

	g.logger.InfoContext(ctx, "generation complete",
		slog.Int("written", len(r.result.Written)),
		slog.Int("skipped", len(r.result.Skipped)),
		slog.Int("failed", r.result.Failed),
	)

	return r.result, errors.Join(r.errs...)
}

func jobs(store *decl.Store) []job {
	var out []job

	for s := range store.Scalars() {
		out = append(out, job{decl.FamilyScalar, s.Name, s})
	}

	for v := range store.Vectors() {
		out = append(out, job{decl.FamilyVector, v.Name, v})
	}

	for u := range store.Units() {
		out = append(out, job{decl.FamilyUnit, u.Name, u})
	}

	return out
}

// artifact renders, expands and writes one entity.
func (r *run) artifact(ctx context.Context, t *template.Template, j job) {
	path, err := r.generate(ctx, t, j)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.result.Failed++
		r.errs = append(r.errs, err)

		r.logger.ErrorContext(ctx, "artifact failed",
			slog.String("entity", j.family.String()+"/"+j.name),
			slog.Any("error", err),
		)

		return
	}

	r.result.Written = append(r.result.Written, path)
}

func (r *run) generate(ctx context.Context, t *template.Template, j job) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	attr := slog.String("entity", j.family.String()+"/"+j.name)

	var buf bytes.Buffer
	if err := t.Execute(&buf, r.data(j)); err != nil {
		return "", ErrRender.Wrap(err).With(attr)
	}

	doc := r.docSource(ctx, j)

	text, err := r.engine.Expand(ctx, buf.String(), doc)
	if err != nil {
		return "", ErrDocSource.Wrap(err).With(attr, slog.String("doc", doc))
	}

	path := OutputPath(r.cfg, j.family, j.name)
	if err := writeArtifact(path, r.header(j), text); err != nil {
		return "", ErrWrite.Wrap(err).With(attr, slog.String("path", path))
	}

	r.logger.DebugContext(ctx, "artifact written", attr, slog.String("path", path))

	return path, nil
}

func (r *run) data(j job) Data {
	d := Data{Family: j.family.String(), Name: j.name, Entity: j.entity}

	switch e := j.entity.(type) {
	case *decl.Scalar:
		d.Scalar = e
		d.View = r.resolver.View(e)
	case *decl.Vector:
		d.Vector = e
		d.View = r.resolver.View(e)
	case *decl.Unit:
		d.Unit = e
		d.View = r.resolver.UnitView(e)
	}

	return d
}

// docSource selects <docs>/<family>/<Name>.doc when it exists and
// <docs>/<family>.doc otherwise.
func (r *run) docSource(ctx context.Context, j job) string {
	own := filepath.Join(r.cfg.Docs, j.family.String(), j.name+DocExt)
	if _, ok, err := r.sources.Read(ctx, own); ok || err != nil {
		return own
	}

	return filepath.Join(r.cfg.Docs, j.family.String()+DocExt)
}

// header returns the generated-code notice of an artifact, carrying the
// fingerprint of the entity's declaration.
func (r *run) header(j job) string {
	src, err := yaml.Marshal(j.entity)
	if err != nil {
		src = []byte(j.name)
	}

	return Header(r.cfg.Comment, j.family, j.name, tags.Fingerprint(string(src)))
}
