package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	root := writeTree(t, map[string]string{
		"docs/base.doc": scalarDoc,
		"docs/unit.doc": "#Extends: base.doc\n" +
			"#Tag:Symbol(name, symbol)\n${name} is written ${symbol}.\n#EndTag\n",
		"quantity.tmpl": "// #Doc:Summary(Length)\n",
	})

	doc := filepath.Join(root, "docs", "unit.doc")
	tmpl := filepath.Join(root, "quantity.tmpl")

	tests := []struct {
		name    string
		files   []string
		stdin   string
		want    string
		wantErr error
	}{
		{
			name:  "stdin",
			files: []string{"-"},
			stdin: "#Doc:Symbol(metre, m)\n",
			want:  "metre is written m.\n",
		},
		{
			name:  "file then stdin",
			files: []string{"-", tmpl},
			stdin: "#Doc:Symbol(symbol=s, name=second)\n",
			want:  "// Length is a scalar.\nsecond is written s.\n",
		},
		{
			name:    "unknown tag",
			files:   []string{"-"},
			stdin:   "#Doc:Nope\n",
			want:    "!!TagLookupFailure(Nope)!!\n",
			wantErr: ErrDiagnostics,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Expand{Doc: doc, Files: tt.files}

			var buf bytes.Buffer

			err := e.run(t.Context(), testInputs(t, root), strings.NewReader(tt.stdin), &buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}
