package tags

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/unitgen/log"
	"github.com/ardnew/unitgen/pkg"
)

// Sources reads documentation sources.
//
// Read returns ok == false when no source exists at path. A non-nil error
// means the source exists but could not be read.
type Sources interface {
	Read(ctx context.Context, path string) (text string, ok bool, err error)
}

// Sentinel errors returned by [Sources] implementations.
var (
	ErrReadSource    = pkg.NewError("read documentation source")
	ErrSourcesClosed = pkg.NewError("documentation source cache is closed")
)

// DocPathEnv names the environment variable holding extra documentation
// directories, separated like PATH.
func DocPathEnv() string { return pkg.EnvPrefix() + "DOCPATH" }

// SearchPath returns dirs followed by the directories listed in
// [DocPathEnv], keeping only those that exist.
func SearchPath(dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(DocPathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(list)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// FileSources reads documentation sources from the file system. A relative
// path that does not exist is looked up in each search directory in turn.
type FileSources struct {
	Search []string
	Logger log.Logger
}

// Read implements [Sources].
func (f FileSources) Read(ctx context.Context, path string) (string, bool, error) {
	for _, candidate := range f.candidates(path) {
		text, err := readFile(candidate)

		switch {
		case err == nil:
			f.Logger.TraceContext(ctx, "read documentation source",
				slog.String("path", candidate),
				slog.Int("bytes", len(text)),
			)

			return text, true, nil

		case errors.Is(err, fs.ErrNotExist):
			continue

		default:
			return "", false, ErrReadSource.Wrap(err).With(slog.String("path", candidate))
		}
	}

	return "", false, nil
}

func (f FileSources) candidates(path string) []string {
	out := []string{path}
	if filepath.IsAbs(path) {
		return out
	}

	for _, dir := range f.Search {
		out = append(out, filepath.Join(dir, path))
	}

	return out
}

func readFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return "", fs.ErrNotExist
	}

	ra := readahead.NewReader(file)
	defer ra.Close()

	var b strings.Builder
	if _, err := io.Copy(&b, ra); err != nil {
		return "", err
	}

	return b.String(), nil
}

// MapSources serves documentation sources from memory, keyed by path.
type MapSources map[string]string

// Read implements [Sources].
func (m MapSources) Read(_ context.Context, path string) (string, bool, error) {
	if text, ok := m[path]; ok {
		return text, true, nil
	}

	text, ok := m[filepath.ToSlash(filepath.Clean(path))]

	return text, ok, nil
}

// CachedSources is a read-through cache in front of another [Sources],
// scoped to one generation run. Close releases the cache; reads after Close
// fail.
type CachedSources struct {
	base   Sources
	logger log.Logger

	mu      sync.Mutex
	entries map[string]cached
	closed  bool
}

type cached struct {
	text string
	ok   bool
}

// NewCachedSources returns a cache in front of base.
func NewCachedSources(base Sources, logger log.Logger) *CachedSources {
	return &CachedSources{
		base:    base,
		logger:  logger,
		entries: make(map[string]cached),
	}
}

// Read implements [Sources]. Absence is cached; read errors are not.
func (c *CachedSources) Read(ctx context.Context, path string) (string, bool, error) {
	key := filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return "", false, ErrSourcesClosed.With(slog.String("path", path))
	}

	if e, hit := c.entries[key]; hit {
		c.logger.TraceContext(ctx, "source cache hit", slog.String("path", key))

		return e.text, e.ok, nil
	}

	text, ok, err := c.base.Read(ctx, path)
	if err != nil {
		return "", false, err
	}

	c.entries[key] = cached{text: text, ok: ok}

	c.logger.TraceContext(ctx, "source cache fill",
		slog.String("path", key),
		slog.Bool("found", ok),
		slog.String("xxh3", Fingerprint(text)),
	)

	return text, ok, nil
}

// Len returns the number of cached paths.
func (c *CachedSources) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Close discards the cache.
func (c *CachedSources) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	c.closed = true

	return nil
}

// Fingerprint returns the hexadecimal xxh3 hash of text.
func Fingerprint(text string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(text))
}
