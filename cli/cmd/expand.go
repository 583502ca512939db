package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/tags"
)

// Expand expands the documentation tag invocations of template text against
// one documentation source.
type Expand struct {
	Doc   string   `help:"Documentation source defining the tags" placeholder:"PATH" required:"" short:"D"`
	Files []string `arg:"" default:"-" help:"Template text files, or '-' for stdin" name:"file" optional:""`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context, in *Inputs) error {
	return e.run(ctx, in, os.Stdin, stdout(ctx))
}

func (e *Expand) run(ctx context.Context, in *Inputs, stdin io.Reader, w io.Writer) error {
	text, err := readSources(e.Files, stdin)
	if err != nil {
		return err
	}

	var c diag.Collector

	engine := in.engine(tags.FileSources{Search: in.search(), Logger: log.Default()}, in.sink(&c))

	out, err := engine.Expand(ctx, text, e.Doc)
	if err != nil {
		return pkg.ErrReadInput.Wrap(err).With(slog.String("doc", e.Doc))
	}

	if _, err := io.WriteString(w, out); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return failOnErrors(&c)
}
