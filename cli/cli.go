package cli

import (
	"context"
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ardnew/unitgen/cli/cmd"
	"github.com/ardnew/unitgen/pkg"
)

// Configuration files merged into the flag defaults.
const (
	baseConfig  = "config.yaml"
	localConfig = "." + pkg.Name + ".yaml"
)

// CLI is the top-level command-line interface for unitgen.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Inputs cmd.Inputs `embed:""`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Generate cmd.Generate `cmd:"" default:"1" help:"Render declarations through templates and documentation"`
	Check    cmd.Check    `cmd:""              help:"Validate declarations and documentation sources"`
	Resolve  cmd.Resolve  `cmd:""              help:"Print resolved references of declared entities"`
	Expand   cmd.Expand   `cmd:""              help:"Expand documentation tags in template text"`
	Repl     cmd.Repl     `cmd:""              help:"Interactive documentation tag playground"`
	Init     cmd.Init     `cmd:""              help:"Write current flag values to the configuration file"`
}

// Run executes the unitgen CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return pkg.WrapError(err).With(
			slog.String("config", pkg.ConfigDir()),
			slog.String("cache", pkg.CacheDir()),
		)
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cmd.Vars()).
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Logger flags take effect before kong reports parse errors, wherever
	// they appear on the command line.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(Load, configFilePath, localConfig),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	// No-op unless built with tag pprof and a mode is selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli.Inputs)
}
