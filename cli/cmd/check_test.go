package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/ardnew/unitgen/diag"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		extra   map[string]string
		want    []string
		wantErr error
	}{
		{
			name: "clean",
			want: []string{
				"ok 2 entities, 1 documentation sources, 1 visible tags: 0 errors, 0 warnings",
			},
		},
		{
			name:  "unresolved reference",
			extra: map[string]string{"decl/scalar/Time.yaml": timeScalar},
			want: []string{
				"UnresolvedReference",
				"3 entities, 1 documentation sources, 1 visible tags: 1 errors, 0 warnings",
			},
			wantErr: ErrDiagnostics,
		},
		{
			name: "missing extended source",
			extra: map[string]string{
				"docs/scalar/Length.doc": "#Extends: nowhere.doc\n#Tag:Own\nx\n#EndTag\n",
			},
			want: []string{
				"warning SourceUnreadable",
				"ok 2 entities, 2 documentation sources, 2 visible tags: 0 errors, 1 warnings",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := validTree(t, tt.extra)
			c := &Check{Docs: filepath.Join(root, "docs")}

			var buf bytes.Buffer

			err := c.run(t.Context(), testInputs(t, root), &buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
			}

			out := ansi.Strip(buf.String())
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestFormatRecord(t *testing.T) {
	got := ansi.Strip(formatRecord(diag.Record{
		Severity: diag.Error,
		Kind:     diag.TagLookupFailure,
		Message:  "tag not found",
		Tag:      "Summary",
		Source:   "docs/scalar.doc",
	}))

	want := "error   TagLookupFailure      docs/scalar.doc Summary: tag not found"
	if got != want {
		t.Errorf("formatRecord() = %q, want %q", got, want)
	}
}
