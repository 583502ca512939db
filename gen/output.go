package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/pkg"
)

// File modes of generated artifacts.
const (
	OutDirMode  os.FileMode = 0o755
	OutFileMode os.FileMode = 0o644
)

// OutputPath returns <out>/<family>/<name><ext>.
func OutputPath(cfg Config, f decl.Family, name string) string {
	return filepath.Join(cfg.Out, f.String(), name+cfg.Ext)
}

// Header returns the generated-code notice written at the top of every
// artifact, each line prefixed by comment.
func Header(comment string, f decl.Family, name, fingerprint string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Code generated by %s %s from %s %s. DO NOT EDIT.\n",
		comment, pkg.Name, pkg.Version, f, name)
	fmt.Fprintf(&b, "%s xxh3:%s\n\n", comment, fingerprint)

	return b.String()
}

// checkOut refuses a non-empty output directory unless force is set.
func checkOut(out string, force bool) error {
	if force || out == "" {
		return nil
	}

	entries, err := os.ReadDir(out)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return ErrWrite.Wrap(err).With(slog.String("path", out))
	case len(entries) > 0:
		return ErrOutputExists.With(slog.String("path", out))
	}

	return nil
}

func writeArtifact(path, header, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), OutDirMode); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(header+text), OutFileMode)
}
