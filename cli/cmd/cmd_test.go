package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/unitgen/diag"
	"github.com/ardnew/unitgen/pkg"
	"github.com/ardnew/unitgen/tags"
)

// Declarations shared by the command tests. Time names a unit that is never
// declared.
const (
	lengthScalar = "type: scalar\nname: Length\nunit: $self\n"
	timeScalar   = "type: scalar\nname: Time\nunit: Time\n"
	lengthUnit   = `type: unit
name: Length
quantity: $self
units:
  - name: meter
    plural: meters
    symbol: m
    base: true
    value: 1
  - name: kilometer
    plural: kilometers
    scaled: {from: meter, factor: 1000}
`
	scalarDoc = "#Tag:Summary(name)\n${name} is a scalar.\n#EndTag\n"
)

// writeTree writes files (relative path to content) beneath a temporary
// directory and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return root
}

// validTree returns a tree whose declarations all resolve.
func validTree(t *testing.T, extra map[string]string) string {
	t.Helper()

	files := map[string]string{
		"decl/scalar/Length.yaml": lengthScalar,
		"decl/unit/Length.yaml":   lengthUnit,
		"docs/scalar.doc":         scalarDoc,
	}
	for k, v := range extra {
		files[k] = v
	}

	return writeTree(t, files)
}

func testInputs(t *testing.T, root string) *Inputs {
	t.Helper()
	t.Setenv(tags.DocPathEnv(), "")

	return &Inputs{
		Decl:      []string{filepath.Join(root, "decl")},
		PassLimit: tags.DefaultPassLimit,
	}
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		return path
	}

	a := write("a.tmpl", "alpha\n")
	b := write("b.tmpl", "beta\n")

	link := filepath.Join(dir, "link.tmpl")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		stdin string
		want  string
	}{
		{"empty", nil, "ignored", ""},
		{"single", []string{a}, "", "alpha\n"},
		{"ordered", []string{b, a}, "", "beta\nalpha\n"},
		{"duplicate", []string{a, a, a}, "", "alpha\n"},
		{"symlink", []string{a, link}, "", "alpha\n"},
		{"unclean_path", []string{a, dir + "/./a.tmpl"}, "", "alpha\n"},
		{"stdin_last", []string{"-", a}, "stdin\n", "alpha\nstdin\n"},
		{"stdin_once", []string{"-", b, "-"}, "stdin\n", "beta\nstdin\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readSources(tt.paths, strings.NewReader(tt.stdin))
			if err != nil {
				t.Fatalf("readSources() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("readSources() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSourcesMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.tmpl")

	_, err := readSources([]string{missing}, nil)
	if !errors.Is(err, pkg.ErrReadInput) {
		t.Errorf("readSources() error = %v, want %v", err, pkg.ErrReadInput)
	}
}

func TestRoots(t *testing.T) {
	dir := t.TempDir()

	in := &Inputs{Decl: []string{
		dir,
		filepath.Join(dir, "scalar", "**", "*.yaml"),
		"declarations/unit/Length.yaml",
	}}

	want := []string{
		dir,
		filepath.Join(dir, "scalar"),
		filepath.Join("declarations", "unit"),
	}

	if got := in.roots(); !slices.Equal(got, want) {
		t.Errorf("roots() = %v, want %v", got, want)
	}
}

func TestFailOnErrors(t *testing.T) {
	var c diag.Collector

	c.Report(diag.Record{Severity: diag.Warning, Kind: diag.ArgumentRescued})

	if err := failOnErrors(&c); err != nil {
		t.Errorf("failOnErrors() with warnings = %v, want nil", err)
	}

	c.Report(diag.Record{Severity: diag.Error, Kind: diag.UnresolvedReference})

	if err := failOnErrors(&c); !errors.Is(err, ErrDiagnostics) {
		t.Errorf("failOnErrors() = %v, want %v", err, ErrDiagnostics)
	}
}

func TestContextFallbacks(t *testing.T) {
	ctx := context.Background()

	if w := stdout(ctx); w != os.Stdout {
		t.Errorf("stdout() = %v, want os.Stdout", w)
	}

	if v := variable(ctx, ConfigIdentifier); v != "" {
		t.Errorf("variable() = %q, want empty", v)
	}
}
