package repl

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/tags"
)

// Config selects the documentation the playground expands against.
type Config struct {
	Doc       string   // documentation source defining the visible tags
	Search    []string // directories searched for relative sources
	PassLimit int      // expansion pass limit, see [tags.WithPassLimit]
	CacheDir  string   // history directory; empty disables persistent history
}

// session is the state of the playground that does not concern the terminal.
type session struct {
	doc    string
	engine *tags.Engine
	diags  *diag.Collector
	logger log.Logger
	tags   []tags.Tag
}

// newSession reads the tags visible from cfg.Doc through sources.
func newSession(
	ctx context.Context,
	cfg Config,
	sources tags.Sources,
	logger log.Logger,
) (*session, error) {
	if cfg.Doc == "" {
		return nil, ErrNoSource
	}

	s := &session{
		doc:    cfg.Doc,
		diags:  new(diag.Collector),
		logger: logger,
	}

	s.engine = tags.New(sources,
		tags.WithSink(s.diags),
		tags.WithLogger(logger),
		tags.WithPassLimit(cfg.PassLimit),
	)

	return s, s.reload(ctx)
}

// reload re-reads the visible tags.
func (s *session) reload(ctx context.Context) error {
	s.diags.Reset()

	ts, err := s.engine.Tags(ctx, s.doc)
	if err != nil {
		return err
	}

	s.tags = ts

	s.logger.TraceContext(ctx, "repl tags loaded",
		slog.String("doc", s.doc),
		slog.Int("tags", len(ts)),
	)

	return nil
}

// expand expands one line of input and returns the diagnostics it produced.
func (s *session) expand(ctx context.Context, input string) (string, []diag.Record, error) {
	s.diags.Reset()

	// A tag name needs a delimiter, and the end of the text is none.
	out, err := s.engine.Expand(ctx, input+"\n", s.doc)

	return strings.TrimSuffix(out, "\n"), s.diags.Records(), err
}

// lookup returns the visible tag named name.
func (s *session) lookup(name string) (tags.Tag, bool) {
	i := slices.IndexFunc(s.tags, func(t tags.Tag) bool { return t.Name == name })
	if i < 0 {
		return tags.Tag{}, false
	}

	return s.tags[i], true
}

// names returns the names of the visible tags.
func (s *session) names() []string {
	names := make([]string, len(s.tags))
	for i, t := range s.tags {
		names[i] = t.Name
	}

	return names
}
