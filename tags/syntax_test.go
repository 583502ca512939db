package tags

import (
	"slices"
	"strings"
	"testing"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		start     int
		wantName  string
		wantArgs  []Arg
		wantEnd   int
		malformed bool
	}{
		{
			name:     "line feed",
			line:     "#Doc:Summary\n",
			wantName: "Summary",
			wantEnd:  12,
		},
		{
			name:     "carriage return",
			line:     "#Doc:Summary\r\n",
			wantName: "Summary",
			wantEnd:  12,
		},
		{
			name:     "arguments",
			line:     "x #Doc:Summary(a, b=2)\n",
			start:    2,
			wantName: "Summary",
			wantArgs: []Arg{{Value: "a"}, {Name: "b", Value: "2"}},
			wantEnd:  22,
		},
		{
			name:     "empty argument list",
			line:     "#Doc:Summary()\n",
			wantName: "Summary",
			wantEnd:  14,
		},
		{
			name:     "alternate marker ends name",
			line:     "#Doc:A #Doc:B\n",
			wantName: "A",
			wantEnd:  6,
		},
		{
			name:     "alternate marker abutting",
			line:     "#Doc:A#rest\n",
			wantName: "A",
			wantEnd:  6,
		},
		{
			name:     "space ends unterminated name",
			line:     "#Doc:A and more",
			wantName: "A",
			wantEnd:  6,
		},
		{
			name:     "line break has priority over space",
			line:     "#Doc:A and more\n",
			wantName: "A and more",
			wantEnd:  15,
		},
		{
			// A parenthesis anywhere later on the line wins over the nearer
			// space.
			name:     "parenthesis has priority",
			line:     "#Doc:A then (note)\n",
			wantName: "A then",
			wantArgs: []Arg{{Value: "note"}},
			wantEnd:  18,
		},
		{
			name:     "nested lists and calls",
			line:     "#Doc:A([1, 2], f(x, y), k=[a=b])\n",
			wantName: "A",
			wantArgs: []Arg{
				{Value: "[1, 2]"},
				{Value: "f(x, y)"},
				{Name: "k", Value: "[a=b]"},
			},
			wantEnd: 32,
		},
		{
			name:      "no delimiter",
			line:      "#Doc:Summary",
			wantEnd:   12,
			malformed: true,
		},
		{
			name:      "empty name",
			line:      "#Doc:(x)\n",
			wantEnd:   8,
			malformed: true,
		},
		{
			name:      "unbalanced",
			line:      "  #Doc:A(b(c)\r\n",
			start:     2,
			wantName:  "A",
			wantEnd:   13,
			malformed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := Scan(tt.line, tt.start)

			if (inv.Malformed != "") != tt.malformed {
				t.Fatalf("Malformed = %q, want malformed=%v", inv.Malformed, tt.malformed)
			}

			if !tt.malformed && inv.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", inv.Name, tt.wantName)
			}

			if !slices.Equal(inv.Args, tt.wantArgs) {
				t.Errorf("Args = %+v, want %+v", inv.Args, tt.wantArgs)
			}

			if inv.Start != tt.start || inv.End != tt.wantEnd {
				t.Errorf("span = [%d, %d), want [%d, %d)", inv.Start, inv.End, tt.start, tt.wantEnd)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []Arg
	}{
		{"", nil},
		{"  ", nil},
		{"a", []Arg{{Value: "a"}}},
		{" a , b ", []Arg{{Value: "a"}, {Value: "b"}}},
		{"a b=3", []Arg{{Value: "a b=3"}}},
		{"x=(1, 2)", []Arg{{Name: "x", Value: "(1, 2)"}}},
		{"[a, (b], c)", []Arg{{Value: "[a, (b], c)"}}},
		{"a,", []Arg{{Value: "a"}, {Value: ""}}},
	}

	for _, tt := range tests {
		if got := SplitArgs(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("SplitArgs(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
		ok   bool
	}{
		{"[a, b, c]", []string{"a", "b", "c"}, true},
		{" [ a ] ", []string{"a"}, true},
		{"[]", []string{}, true},
		{"[[1, 2], f(x, y)]", []string{"[1, 2]", "f(x, y)"}, true},
		{"a, b", nil, false},
		{"[a", nil, false},
	}

	for _, tt := range tests {
		got, ok := SplitList(tt.in)
		if ok != tt.ok || !slices.Equal(got, tt.want) {
			t.Errorf("SplitList(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndent(t *testing.T) {
	tests := []struct {
		in, ind, want string
	}{
		{"one", "  ", "one"},
		{"one\ntwo", "  ", "one\n  two"},
		{"one\n\nthree\n", "\t", "one\n\n\tthree\n"},
		{"one\ntwo", "", "one\ntwo"},
	}

	for _, tt := range tests {
		if got := indent(tt.in, tt.ind); got != tt.want {
			t.Errorf("indent(%q, %q) = %q, want %q", tt.in, tt.ind, got, tt.want)
		}
	}
}

func FuzzScan(f *testing.F) {
	for _, seed := range []string{
		"#Doc:Summary\n",
		"#Doc:A(b, c=[1, 2])\n",
		"#Doc:A(b(c)\n",
		"#Doc:",
		"#Doc:#Doc:(\r\n",
		"#Doc: (x) #Doc:y\n",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, line string) {
		if body, _, _ := strings.Cut(line, "\n"); body != line {
			line = body + "\n"
		}

		at := strings.Index(line, Marker)
		if at < 0 {
			return
		}

		inv := Scan(line, at)

		if inv.End < inv.Start+len(Marker) || inv.End > len(line) {
			t.Fatalf("Scan(%q) span [%d, %d) out of range", line, inv.Start, inv.End)
		}

		if inv.Malformed == "" && inv.Name == "" {
			t.Fatalf("Scan(%q) accepted an empty name", line)
		}
	})
}
