package tags

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
)

// DefaultPassLimit is the number of expansion passes after which expansion
// stops with a NonTerminationWarning.
const DefaultPassLimit = 50

// Engine expands documentation tag invocations in template text.
//
// An Engine holds no state between calls to [Engine.Expand] and may be used
// concurrently if its [Sources] and [diag.Sink] may.
type Engine struct {
	sources   Sources
	sink      diag.Sink
	logger    log.Logger
	passLimit int
}

// Option configures an [Engine].
type Option func(Engine) Engine

// WithPassLimit sets the pass limit. Values below 1 select
// [DefaultPassLimit].
func WithPassLimit(n int) Option {
	return func(e Engine) Engine {
		e.passLimit = n

		return e
	}
}

// WithSink sets the sink receiving expansion diagnostics.
func WithSink(sink diag.Sink) Option {
	return func(e Engine) Engine {
		e.sink = sink

		return e
	}
}

// WithLogger sets the logger used for trace events.
func WithLogger(logger log.Logger) Option {
	return func(e Engine) Engine {
		e.logger = logger

		return e
	}
}

// New returns an Engine reading documentation from sources.
func New(sources Sources, opts ...Option) *Engine {
	e := Engine{sources: sources}

	for _, opt := range opts {
		if opt != nil {
			e = opt(e)
		}
	}

	if e.passLimit < 1 {
		e.passLimit = DefaultPassLimit
	}

	e.sink = diag.Or(e.sink)

	return &e
}

// PassLimit returns the configured pass limit.
func (e *Engine) PassLimit() int { return e.passLimit }

// expansion is the state of one call to [Engine.Expand].
type expansion struct {
	*Engine

	ctx    context.Context //nolint:containedctx
	source string
	err    error

	// budget counts the passes left, shared by the outer text and every
	// nested argument expansion.
	budget int
	warned bool

	// missing records unreadable sources already reported.
	missing map[string]bool
}

// Expand expands every tag invocation in text against the documentation
// source at path source, until a pass finds no invocation or the pass limit
// is reached.
//
// Bound argument values are expanded before substitution and draw on the same
// pass limit: only the first pass over each value is free. Once the limit is
// spent every level stops, and one NonTerminationWarning is reported.
//
// Authoring defects never fail expansion: each is reported to the sink and
// replaced by its sentinel. The error is non-nil only when a documentation
// source exists but cannot be read; the text expanded so far is returned with
// it.
func (e *Engine) Expand(ctx context.Context, text, source string) (string, error) {
	x := &expansion{
		Engine:  e,
		ctx:     ctx,
		source:  source,
		budget:  e.passLimit,
		missing: make(map[string]bool),
	}

	out := x.expand(text, 0)

	return out, x.err
}

// expand runs the pass loop. depth counts nested argument expansions.
func (x *expansion) expand(text string, depth int) string {
	for pass := 1; strings.Contains(text, Marker); pass++ {
		if x.budget == 0 {
			x.exhausted()

			return text
		}

		if depth == 0 || pass > 1 {
			x.budget--
		}

		var changed bool

		text, changed = x.pass(text, depth)
		if x.err != nil {
			return text
		}

		x.logger.TraceContext(x.ctx, "expansion pass",
			slog.String("source", x.source),
			slog.Int("pass", pass),
			slog.Int("depth", depth),
			slog.Bool("changed", changed),
		)

		if !changed {
			return text
		}
	}

	return text
}

// exhausted reports the spent pass limit once per expansion.
func (x *expansion) exhausted() {
	if x.warned {
		return
	}

	x.warned = true
	x.report(diag.Warning, diag.NonTerminationWarning, "", "",
		"expansion did not reach a fixed point within the pass limit")
}

// expandValue expands a bound argument value. The value is expanded as one
// terminated line, so a parameterless invocation may end it.
func (x *expansion) expandValue(v string, depth int) string {
	out := x.expand(v+"\n", depth)

	return strings.TrimSuffix(out, "\n")
}

// pass rewrites every line containing the marker once and reports whether
// any invocation was replaced.
func (x *expansion) pass(text string, depth int) (string, bool) {
	if !strings.Contains(text, Marker) {
		return text, false
	}

	var (
		out     strings.Builder
		changed bool
	)

	for line := range strings.Lines(text) {
		if !strings.Contains(line, Marker) {
			out.WriteString(line)

			continue
		}

		out.WriteString(x.rewrite(line, depth))

		changed = true
	}

	return out.String(), changed
}

// rewrite replaces every invocation in line, left to right.
func (x *expansion) rewrite(line string, depth int) string {
	var (
		out strings.Builder
		at  int
		ind = indentOf(line)
	)

	for {
		i := strings.Index(line[at:], Marker)
		if i < 0 || x.err != nil {
			break
		}

		inv := Scan(line, at+i)

		out.WriteString(line[at:inv.Start])
		out.WriteString(indent(x.replace(inv, line[inv.Start:inv.End], depth), ind))

		at = inv.End
	}

	out.WriteString(line[at:])

	return out.String()
}

// replace returns the text substituted for one invocation.
func (x *expansion) replace(inv Invocation, raw string, depth int) string {
	if inv.Malformed != "" {
		subject := strings.TrimSpace(strings.TrimPrefix(raw, Marker))
		x.report(diag.Error, diag.MalformedInvocation, inv.Name, "", inv.Malformed+": "+raw)

		return Sentinel(diag.MalformedInvocation, subject)
	}

	tag, ok := x.lookup(inv.Name)
	if !ok {
		if x.err == nil {
			x.report(diag.Error, diag.TagLookupFailure, inv.Name, "", "tag not found")
		}

		return Sentinel(diag.TagLookupFailure, inv.Name)
	}

	b, issues, err := Bind(tag, inv.Args)
	x.issues(tag, issues)

	if err != nil {
		be, _ := err.(*bindError) //nolint:errorlint

		x.report(diag.Error, be.kind, tag.Name, "", be.msg)

		return Sentinel(be.kind, tag.Name)
	}

	for p, v := range b {
		if strings.Contains(v, Marker) {
			b[p] = x.expandValue(v, depth+1)
		}
	}

	body, issues := Substitute(tag, b)
	x.issues(tag, issues)

	return body
}

func (x *expansion) issues(t Tag, issues []Issue) {
	for _, is := range issues {
		sev := diag.Error

		switch is.Kind {
		case diag.UnknownParameter, diag.ArgumentRescued:
			sev = diag.Warning
		}

		x.report(sev, is.Kind, t.Name, is.Param, is.Text)
	}
}

// lookup finds tag name in the expansion's source or, failing that, in the
// sources it extends, depth first. Each source is read at most once.
func (x *expansion) lookup(name string) (Tag, bool) {
	visited := make(map[string]bool)

	return x.find(name, x.source, visited)
}

func (x *expansion) find(name, path string, visited map[string]bool) (Tag, bool) {
	key := filepath.Clean(path)
	if visited[key] {
		return Tag{}, false
	}

	visited[key] = true

	text, ok := x.read(path)
	if !ok {
		return Tag{}, false
	}

	if t, ok := FindTag(text, path, name); ok {
		x.logger.TraceContext(x.ctx, "tag found",
			slog.String("tag", name),
			slog.String("source", path),
		)

		return t, true
	}

	for _, ref := range ParseExtends(text) {
		if t, ok := x.find(name, x.extends(path, ref), visited); ok {
			return t, true
		}

		if x.err != nil {
			break
		}
	}

	return Tag{}, false
}

// extends resolves an extends target relative to the directory of the
// source declaring it, falling back to the target as written.
func (x *expansion) extends(from, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}

	rel := filepath.Join(filepath.Dir(from), ref)
	if _, ok, err := x.sources.Read(x.ctx, rel); ok || err != nil {
		return rel
	}

	return ref
}

// read returns the text of a source, reporting an absent source once.
func (x *expansion) read(path string) (string, bool) {
	if x.err != nil {
		return "", false
	}

	text, ok, err := x.sources.Read(x.ctx, path)
	if err != nil {
		x.err = err

		return "", false
	}

	if !ok && !x.missing[path] {
		x.missing[path] = true
		x.reportAt(path, diag.Warning, diag.SourceUnreadable, "", "", "documentation source not found")
	}

	return text, ok
}

func (x *expansion) report(sev diag.Severity, kind diag.Kind, tag, param, msg string) {
	x.reportAt(x.source, sev, kind, tag, param, msg)
}

func (x *expansion) reportAt(source string, sev diag.Severity, kind diag.Kind, tag, param, msg string) {
	x.sink.Report(diag.Record{
		Severity: sev,
		Kind:     kind,
		Message:  msg,
		Tag:      tag,
		Param:    param,
		Source:   source,
	})
}

// Tags returns every tag visible from source: its own definitions followed
// by those of the sources it extends, depth first. A name shadowed by an
// earlier definition is omitted.
func (e *Engine) Tags(ctx context.Context, source string) ([]Tag, error) {
	x := &expansion{
		Engine:  e,
		ctx:     ctx,
		source:  source,
		missing: make(map[string]bool),
	}

	var (
		out     []Tag
		seen    = make(map[string]bool)
		visited = make(map[string]bool)
		walk    func(path string)
	)

	walk = func(path string) {
		key := filepath.Clean(path)
		if visited[key] {
			return
		}

		visited[key] = true

		text, ok := x.read(path)
		if !ok {
			return
		}

		for _, t := range ParseTags(text, path) {
			if !seen[t.Name] {
				seen[t.Name] = true
				out = append(out, t)
			}
		}

		for _, ref := range ParseExtends(text) {
			walk(x.extends(path, ref))
		}
	}

	walk(source)

	return out, x.err
}
