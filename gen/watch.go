package gen

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/unitgen/log"
)

// DefaultDebounce is the quiet period after the last change before a watch
// run starts.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reruns a function whenever files below a set of directories
// change. Bursts of changes are coalesced into one run.
type Watcher struct {
	Dirs     []string      // watched recursively
	Ignore   []string      // trees whose events are dropped, such as the output root
	Debounce time.Duration // below 1 selects DefaultDebounce
	Logger   log.Logger
}

// Run calls fn once and then again after every debounced change, until ctx
// is done. Errors from fn are logged and do not stop watching.
func (w Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer fw.Close()

	for _, dir := range w.Dirs {
		if err := w.add(fw, dir); err != nil {
			return ErrWatch.Wrap(err).With(slog.String("dir", dir))
		}
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w.call(ctx, fn)

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if w.ignored(ev.Name) || !ev.Op.Has(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) {
				continue
			}

			if ev.Op.Has(fsnotify.Create) {
				_ = w.add(fw, ev.Name)
			}

			w.Logger.TraceContext(ctx, "input changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()),
			)

			pending = time.After(debounce)

		case <-pending:
			pending = nil

			w.call(ctx, fn)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}

			w.Logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (w Watcher) call(ctx context.Context, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		w.Logger.ErrorContext(ctx, "watch run failed", slog.Any("error", err))
	}
}

// add watches root and every directory below it. A root that is not a
// directory is ignored.
func (w Watcher) add(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return nil
			}

			return err
		}

		if !d.IsDir() {
			return nil
		}

		if w.ignored(path) {
			return filepath.SkipDir
		}

		return fw.Add(path)
	})
}

func (w Watcher) ignored(path string) bool {
	for _, dir := range w.Ignore {
		if dir == "" {
			continue
		}

		rel, err := filepath.Rel(dir, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}

	return false
}
