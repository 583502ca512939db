package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/unitgen/resolve"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		resolve  Resolve
		extra    map[string]string
		want     []string // family/name of each view, in order
		wantErr  error
		contains string
	}{
		{
			name:    "every entity",
			resolve: Resolve{Format: "yaml"},
			want:    []string{"scalar/Length", "unit/Length"},
		},
		{
			name:    "family filter",
			resolve: Resolve{Family: "unit", Format: "json"},
			want:    []string{"unit/Length"},
		},
		{
			name:    "named",
			resolve: Resolve{Names: []string{"Time"}, Format: "json"},
			extra:   map[string]string{"decl/scalar/Time.yaml": timeScalar},
			want:    []string{"scalar/Time"},
			wantErr: ErrDiagnostics,

			contains: "!!UnresolvedReference(Time.unit)!!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := validTree(t, tt.extra)

			var buf bytes.Buffer

			err := tt.resolve.run(t.Context(), testInputs(t, root), &buf)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
			}

			var views []resolve.View

			if tt.resolve.Format == "json" {
				err = json.Unmarshal(buf.Bytes(), &views)
			} else {
				err = yaml.Unmarshal(buf.Bytes(), &views)
			}

			if err != nil {
				t.Fatalf("decode output: %v\n%s", err, buf.String())
			}

			got := make([]string, len(views))
			for i, v := range views {
				got[i] = v.Family + "/" + v.Name
			}

			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("views = %v, want %v", got, tt.want)
			}

			if tt.contains != "" && !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output missing %q:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestResolveViewFields(t *testing.T) {
	root := validTree(t, nil)
	r := Resolve{Names: []string{"Length"}, Family: "scalar", Format: "yaml"}

	var buf bytes.Buffer

	if err := r.run(t.Context(), testInputs(t, root), &buf); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	var views []resolve.View
	if err := yaml.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatal(err)
	}

	if len(views) != 1 {
		t.Fatalf("views = %+v", views)
	}

	v := views[0]
	if v.Unit != "Length" || v.DefaultUnit != "meter" || v.Failed != 0 {
		t.Errorf("view = %+v", v)
	}

	if strings.Join(v.Units, ",") != "meter,kilometer" {
		t.Errorf("Units = %v", v.Units)
	}
}

func TestResolveUnknownName(t *testing.T) {
	root := validTree(t, nil)
	r := Resolve{Names: []string{"Lenght"}, Format: "yaml"}

	var buf bytes.Buffer

	err := r.run(t.Context(), testInputs(t, root), &buf)
	if !errors.Is(err, ErrUnknownEntity) {
		t.Fatalf("run() error = %v, want %v", err, ErrUnknownEntity)
	}

	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}
