package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/tags"
)

// Inputs locates the declarations and documentation sources shared by every
// command.
type Inputs struct {
	Decl      []string `default:"declarations"   help:"Declaration files, directories or glob patterns" placeholder:"PATTERN" sep:"none" short:"d"`
	DocPath   []string `                         help:"Directories searched for relative documentation sources" placeholder:"DIR" sep:"none"`
	PassLimit int      `default:"${passLimit}"   help:"Tag expansion pass limit"`
}

// Vars returns the kong variables referenced by the command flags.
func Vars() kong.Vars {
	return kong.Vars{PassLimitIdentifier: strconv.Itoa(tags.DefaultPassLimit)}
}

// sink forwards diagnostics to c and to the package logger.
func (in *Inputs) sink(c *diag.Collector) diag.Sink {
	return diag.Tee(c, diag.LogSink(log.Default()))
}

// load reads every declaration matched by [Inputs.Decl].
func (in *Inputs) load(ctx context.Context, sink diag.Sink) (*decl.Store, error) {
	return decl.NewLoader(
		decl.WithLogger(log.Default()),
		decl.WithSink(sink),
	).Load(ctx, in.Decl...)
}

// search returns the documentation search path.
func (in *Inputs) search() []string { return tags.SearchPath(in.DocPath...) }

// engine returns a tag engine reading from sources.
func (in *Inputs) engine(sources tags.Sources, sink diag.Sink) *tags.Engine {
	return tags.New(sources,
		tags.WithSink(sink),
		tags.WithLogger(log.Default()),
		tags.WithPassLimit(in.PassLimit),
	)
}

// roots returns the directories containing the declaration patterns.
func (in *Inputs) roots() []string {
	dirs := make([]string, 0, len(in.Decl))

	for _, pattern := range in.Decl {
		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			dirs = append(dirs, filepath.Clean(pattern))

			continue
		}

		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		dirs = append(dirs, filepath.FromSlash(base))
	}

	return dirs
}

// failOnErrors returns [ErrDiagnostics] if c holds any error record.
func failOnErrors(c *diag.Collector) error {
	if n := c.Count(diag.Error); n > 0 {
		return ErrDiagnostics.With(
			slog.Int("errors", n),
			slog.Int("warnings", c.Count(diag.Warning)),
		)
	}

	return nil
}

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// variable returns the kong variable name, or "" outside a kong context.
func variable(ctx context.Context, name string) string {
	if ktx := kongContextFrom(ctx); ktx != nil {
		return ktx.Model.Vars()[name]
	}

	return ""
}

// stdinSource is the argument naming standard input.
const stdinSource = "-"

// fileKey identifies a file by device and inode, which dedupes symlinks and
// differently spelled paths to the same file.
type fileKey struct {
	dev uint64
	ino uint64
}

// readSources concatenates the content of paths in order. Repeated files are
// read once, and every "-" refers to a single read of stdin placed last.
func readSources(paths []string, stdin io.Reader) (string, error) {
	var (
		b        strings.Builder
		seen     = make(map[fileKey]bool)
		useStdin bool
	)

	for _, path := range paths {
		if path == stdinSource {
			useStdin = true

			continue
		}

		if err := appendFile(&b, path, seen); err != nil {
			return "", pkg.ErrReadInput.Wrap(err).With(slog.String("path", path))
		}
	}

	if useStdin && stdin != nil {
		if _, err := io.Copy(&b, stdin); err != nil {
			return "", pkg.ErrReadInput.Wrap(err).With(slog.String("path", stdinSource))
		}
	}

	return b.String(), nil
}

func appendFile(w io.Writer, path string, seen map[fileKey]bool) error {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return err
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		if key, ok := makeFileKey(info); ok {
			if seen[key] {
				return nil
			}

			seen[key] = true
		}
	}

	_, err = io.Copy(w, f)

	return err
}

// makeFileKey returns false if info carries no *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (fileKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileKey{}, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
