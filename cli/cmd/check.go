package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/gen"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/resolve"
	"github.com/ardnew/unitgen/tags"
)

// Check loads the declarations, resolves every reference, reads every
// documentation source and prints the diagnostics found.
type Check struct {
	Docs string `default:"docs" help:"Documentation source directory" type:"path"`
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	kindStyle    = lipgloss.NewStyle().Bold(true)
	subjectStyle = lipgloss.NewStyle().Faint(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

// Run executes the check command.
func (c *Check) Run(ctx context.Context, in *Inputs) error {
	return c.run(ctx, in, stdout(ctx))
}

func (c *Check) run(ctx context.Context, in *Inputs, w io.Writer) error {
	var col diag.Collector

	store, err := in.load(ctx, &col)
	if err != nil {
		return err
	}

	r := resolve.New(store,
		resolve.WithLogger(log.Default()),
		resolve.WithSink(&col),
	)

	entities := 0

	for s := range store.Scalars() {
		r.View(s)
		entities++
	}

	for v := range store.Vectors() {
		r.View(v)
		entities++
	}

	for u := range store.Units() {
		r.UnitView(u)
		entities++
	}

	docs, err := doublestar.FilepathGlob(
		filepath.Join(c.Docs, "**", "*"+gen.DocExt),
		doublestar.WithFilesOnly(),
	)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err).With(slog.String("dir", c.Docs))
	}

	sources := tags.NewCachedSources(
		tags.FileSources{Search: in.search(), Logger: log.Default()},
		log.Default(),
	)
	defer sources.Close()

	engine := in.engine(sources, &col)
	defined := 0

	for _, doc := range docs {
		ts, err := engine.Tags(ctx, doc)
		if err != nil {
			return pkg.ErrReadInput.Wrap(err).With(slog.String("path", doc))
		}

		defined += len(ts)
	}

	records := col.Records()
	for _, rec := range records {
		fmt.Fprintln(w, formatRecord(rec))
	}

	summary := fmt.Sprintf("%d entities, %d documentation sources, %d visible tags: %d errors, %d warnings",
		entities, len(docs), defined, col.Count(diag.Error), col.Count(diag.Warning))

	if col.Count(diag.Error) == 0 {
		summary = okStyle.Render("ok") + " " + summary
	}

	if _, err := fmt.Fprintln(w, summary); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return failOnErrors(&col)
}

// formatRecord renders one diagnostic on a single line:
//
//	error   UnresolvedReference  scalar/Time.yaml Time: unit "Time" not found
func formatRecord(r diag.Record) string {
	style := infoStyle

	switch r.Severity {
	case diag.Error:
		style = errorStyle
	case diag.Warning:
		style = warningStyle
	}

	subject := slices.DeleteFunc([]string{r.Source, r.Entity, r.Tag, r.Param}, func(s string) bool {
		return s == ""
	})

	return fmt.Sprintf("%s %s %s: %s",
		style.Render(fmt.Sprintf("%-7s", r.Severity)),
		kindStyle.Render(fmt.Sprintf("%-21s", r.Kind)),
		subjectStyle.Render(strings.Join(subject, " ")),
		r.Message,
	)
}
