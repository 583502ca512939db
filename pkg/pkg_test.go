package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "unitgen" {
		t.Errorf("Name = %q, want %q", Name, "unitgen")
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Fatal("Version is empty")
	}

	if strings.TrimSpace(Version) != Version {
		t.Errorf("Version %q has surrounding whitespace", Version)
	}

	if parts := strings.Split(Version, "."); len(parts) != 3 {
		t.Errorf("Version %q is not MAJOR.MINOR.PATCH", Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew"
	}) {
		t.Errorf("Author = %v, want entry for ardnew", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	base := NewError("load declaration")
	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"sentinel", base, "load declaration"},
		{"wrapped", base.Wrap(cause), "load declaration: permission denied"},
		{"cause_only", WrapError(cause), "permission denied"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	errA := NewError("a")
	errB := NewError("b")
	cause := errors.New("cause")

	derived := errA.With(slog.String("file", "x.yaml")).Wrap(cause)

	if !errors.Is(derived, errA) {
		t.Error("derived error does not match its sentinel")
	}

	if errors.Is(derived, errB) {
		t.Error("derived error matches an unrelated sentinel")
	}

	if !errors.Is(derived, cause) {
		t.Error("derived error does not match its cause")
	}

	wrapped := fmt.Errorf("outer: %w", derived)
	if !errors.Is(wrapped, errA) {
		t.Error("fmt-wrapped error does not match sentinel")
	}

	if got := WrapError(wrapped); got != derived {
		t.Errorf("WrapError() = %v, want the inner *Error", got)
	}
}

func TestErrorWithDoesNotAlias(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))
	first := base.With(slog.Int("b", 2))
	second := base.With(slog.Int("c", 3))

	if n := len(first.Attrs()); n != 2 {
		t.Fatalf("first has %d attrs, want 2", n)
	}

	if key := second.Attrs()[1].Key; key != "c" {
		t.Errorf("second attr key = %q, want %q", key, "c")
	}
}

func TestErrorLogValue(t *testing.T) {
	err := NewError("resolve").
		Wrap(errors.New("missing")).
		With(slog.String("entity", "Length"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue kind = %v, want group", v.Kind())
	}

	got := make(map[string]string)
	for _, a := range v.Group() {
		got[a.Key] = a.Value.String()
	}

	want := map[string]string{
		"error":  "resolve",
		"cause":  "missing",
		"entity": "Length",
	}

	for k, w := range want {
		if got[k] != w {
			t.Errorf("attr %q = %q, want %q", k, got[k], w)
		}
	}
}

func TestEnvPrefix(t *testing.T) {
	p := EnvPrefix()
	if !strings.HasSuffix(p, "_") || strings.ToUpper(p) != p {
		t.Errorf("EnvPrefix() = %q, want upper case with trailing underscore", p)
	}
}
