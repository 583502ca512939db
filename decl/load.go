package decl

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
)

// DeclarationGlob is the pattern appended to a directory argument of
// [Loader.Files].
const DeclarationGlob = "**/*.{yaml,yml}"

// Loader discovers, decodes, and validates declaration files.
type Loader struct {
	logger log.Logger
	sink   diag.Sink
}

// LoaderOption configures a [Loader].
type LoaderOption func(Loader) Loader

// WithLogger sets the logger used for trace and debug events.
func WithLogger(logger log.Logger) LoaderOption {
	return func(l Loader) Loader {
		l.logger = logger

		return l
	}
}

// WithSink sets the sink receiving declaration diagnostics.
func WithSink(sink diag.Sink) LoaderOption {
	return func(l Loader) Loader {
		l.sink = sink

		return l
	}
}

// NewLoader returns a Loader configured with opts.
func NewLoader(opts ...LoaderOption) Loader {
	var l Loader

	for _, opt := range opts {
		if opt != nil {
			l = opt(l)
		}
	}

	l.sink = diag.Or(l.sink)

	return l
}

// Files expands patterns into a sorted, de-duplicated list of files.
// A pattern naming a directory matches every YAML file beneath it.
func (l Loader) Files(patterns ...string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			pattern = filepath.Join(pattern, DeclarationGlob)
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, ErrInvalidDeclaration.Wrap(err).With(slog.String("pattern", pattern))
		}

		l.logger.Trace("expanded declaration pattern",
			slog.String("pattern", pattern),
			slog.Int("matches", len(matches)),
		)

		files = append(files, matches...)
	}

	for i, f := range files {
		files[i] = filepath.Clean(f)
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// Load reads every file matched by patterns into a new [Store].
//
// Defective records are reported and skipped. The returned error is non-nil
// only when a pattern is malformed, nothing matched, or ctx is done.
func (l Loader) Load(ctx context.Context, patterns ...string) (*Store, error) {
	files, err := l.Files(patterns...)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, ErrNoDeclarations.With(slog.Any("patterns", patterns))
	}

	store := NewStore()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			l.report(diag.Error, diag.SourceUnreadable, path, "", err.Error())

			continue
		}

		l.Decode(store, path, data)
	}

	l.logger.DebugContext(ctx, "loaded declarations",
		slog.Int("files", len(files)),
		slog.Int("scalars", store.Len(FamilyScalar)),
		slog.Int("vectors", store.Len(FamilyVector)),
		slog.Int("units", store.Len(FamilyUnit)),
	)

	return store, nil
}

type header struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`
}

// Decode validates the declaration record data read from path and adds it
// to store. It reports whether the record was kept.
func (l Loader) Decode(store *Store, path string, data []byte) bool {
	l.sink = diag.Or(l.sink)

	var h header
	if err := yaml.Unmarshal(data, &h); err != nil {
		l.report(diag.Error, diag.InvalidDeclaration, path, "", yaml.FormatError(err, false, false))

		return false
	}

	h.Name = strings.TrimSpace(h.Name)

	if h.Type == "" || h.Name == "" {
		l.report(diag.Error, diag.InvalidDeclaration, path, h.Name,
			"declaration requires both type and name")

		return false
	}

	family, ok := ParseFamily(h.Type)
	if !ok {
		l.report(diag.Error, diag.InvalidDeclaration, path, h.Name,
			fmt.Sprintf("unrecognized declaration type %q", h.Type))

		return false
	}

	if base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)); base != h.Name {
		l.report(diag.Warning, diag.NameMismatch, path, h.Name,
			fmt.Sprintf("declared name %q differs from file name %q", h.Name, base))
	}

	var err error

	switch family {
	case FamilyScalar:
		err = l.decodeScalar(store, path, data)
	case FamilyVector:
		err = l.decodeVector(store, path, data)
	case FamilyUnit:
		err = l.decodeUnit(store, path, data)
	}

	if err != nil {
		msg := err.Error()
		if yerr := yaml.FormatError(err, false, false); yerr != "" {
			msg = yerr
		}

		l.report(diag.Error, diag.InvalidDeclaration, path, h.Name, msg)

		return false
	}

	l.logger.Trace("decoded declaration",
		slog.String("type", family.String()),
		slog.String("name", h.Name),
		slog.String("path", path),
	)

	return true
}

func (l Loader) decodeScalar(store *Store, path string, data []byte) error {
	var q Scalar
	if err := yaml.Unmarshal(data, &q); err != nil {
		return err
	}

	q.Name = strings.TrimSpace(q.Name)

	if q.Unit.Kind == RefComponent || q.DefaultUnit.Kind == RefComponent {
		return fmt.Errorf("%s is only valid on vector quantities", ComponentToken)
	}

	return store.AddScalar(q, path)
}

func (l Loader) decodeVector(store *Store, path string, data []byte) error {
	var q Vector
	if err := yaml.Unmarshal(data, &q); err != nil {
		return err
	}

	q.Name = strings.TrimSpace(q.Name)

	for _, d := range q.Dimensions {
		if d < 2 || d > 4 {
			return fmt.Errorf("unsupported dimensionality %d (want 2, 3, or 4)", d)
		}
	}

	return store.AddVector(q, path)
}

func (l Loader) decodeUnit(store *Store, path string, data []byte) error {
	var u Unit
	if err := yaml.Unmarshal(data, &u); err != nil {
		return err
	}

	u.Name = strings.TrimSpace(u.Name)

	if u.Biased && u.Unbiased.IsZero() {
		return fmt.Errorf("biased unit %q has no unbiased reference", u.Name)
	}

	normalize(u.Units)
	normalize(u.Constants)

	for _, f := range u.Formulas {
		if err := CheckFormula(f); err != nil {
			l.report(diag.Warning, diag.InvalidFormula, path, u.Name, err.Error())
		}
	}

	for _, e := range slices.Concat(u.Units, u.Constants) {
		if err := CheckEntry(e); err != nil {
			l.report(diag.Warning, diag.InvalidFormula, path, u.Name+"."+e.Name, err.Error())
		}
	}

	return store.AddUnit(u, path)
}

// normalize marks null list items, which may bypass Entry decoding, as
// separators.
func normalize(entries []Entry) {
	for i := range entries {
		if entries[i].Name == "" {
			entries[i] = Entry{Separator: true}
		}
	}
}

func (l Loader) report(sev diag.Severity, kind diag.Kind, path, entity, msg string) {
	diag.Or(l.sink).Report(diag.Record{
		Severity: sev,
		Kind:     kind,
		Message:  msg,
		Entity:   entity,
		Source:   path,
	})
}
