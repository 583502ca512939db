package decl

import (
	"errors"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"", Ref{}},
		{"   ", Ref{}},
		{"$self", Ref{Kind: RefSelf}},
		{"$component", Ref{Kind: RefComponent}},
		{"[Length]", Ref{Kind: RefAlias, Name: "Length"}},
		{"[ Length ]", Ref{Kind: RefAlias, Name: "Length"}},
		{"[]", Ref{}},
		{"Meter", Ref{Kind: RefLiteral, Name: "Meter"}},
		{" Meter ", Ref{Kind: RefLiteral, Name: "Meter"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseRef(tt.in)
			if got != tt.want {
				t.Fatalf("ParseRef(%q) = %+v, want %+v", tt.in, got, tt.want)
			}

			if again := ParseRef(got.String()); again != got {
				t.Errorf("ParseRef(%q) = %+v, want %+v", got.String(), again, got)
			}
		})
	}
}

func TestRefTarget(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{}, ""},
		{Ref{Kind: RefSelf}, "Speed"},
		{Ref{Kind: RefComponent}, ""},
		{Literal("Meter"), "Meter"},
		{Alias("Length"), "Length"},
	}

	for _, tt := range tests {
		if got := tt.ref.Target("Speed"); got != tt.want {
			t.Errorf("%v.Target(Speed) = %q, want %q", tt.ref.Kind, got, tt.want)
		}
	}
}

func TestRefUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    Ref
		wantErr bool
	}{
		{"literal", `ref: Meter`, Literal("Meter"), false},
		{"self", `ref: $self`, Ref{Kind: RefSelf}, false},
		{"quoted alias", `ref: "[Length]"`, Alias("Length"), false},
		{"flow alias", `ref: [Length]`, Alias("Length"), false},
		{"absent", `other: 1`, Ref{}, false},
		{"numeric", `ref: 42`, Literal("42"), false},
		{"two aliases", `ref: [Length, Time]`, Ref{}, true},
		{"nested alias", `ref: [[Length]]`, Ref{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Ref Ref `yaml:"ref"`
			}

			err := yaml.Unmarshal([]byte(tt.doc), &v)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%q) succeeded with %+v", tt.doc, v.Ref)
				}

				if !errors.Is(err, ErrInvalidRef) {
					t.Logf("error does not wrap ErrInvalidRef: %v", err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Unmarshal(%q): %v", tt.doc, err)
			}

			if v.Ref != tt.want {
				t.Errorf("Unmarshal(%q) = %+v, want %+v", tt.doc, v.Ref, tt.want)
			}
		})
	}
}

func TestRefMarshalYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Unit Ref `yaml:"unit"`
	}{Alias("Length")})
	if err != nil {
		t.Fatal(err)
	}

	var back struct {
		Unit Ref `yaml:"unit"`
	}

	if err := yaml.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal(%q): %v", out, err)
	}

	if back.Unit != Alias("Length") {
		t.Errorf("round trip through %q = %+v", out, back.Unit)
	}
}
