package cmd

import (
	"context"

	"github.com/ardnew/unitgen/cli/cmd/repl"
	"github.com/ardnew/unitgen/log"
)

// Repl starts an interactive session expanding documentation tags.
type Repl struct {
	Doc string `help:"Documentation source defining the tags" placeholder:"PATH" required:"" short:"D"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context, in *Inputs) error {
	return repl.Run(ctx, repl.Config{
		Doc:       r.Doc,
		Search:    in.search(),
		PassLimit: in.PassLimit,
		CacheDir:  variable(ctx, CacheIdentifier),
	}, log.Default())
}
