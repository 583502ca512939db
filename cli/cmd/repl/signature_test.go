package repl

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/ardnew/unitgen/tags"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   call
	}{
		{"no_call", "plain text", 10, call{}},
		{"no_marker", "Unit(m", 6, call{}},
		{"first_arg", "#Doc:Unit(m", 11, call{name: "Unit", inCall: true}},
		{"second_arg", "#Doc:Unit(m, ", 13, call{name: "Unit", argIndex: 1, inCall: true}},
		{"closed", "#Doc:Unit(m, metre)", 19, call{}},
		{"cursor_inside_closed", "#Doc:Unit(m, metre)", 11, call{name: "Unit", inCall: true}},
		{
			"nested_call",
			"#Doc:Scaled(#Doc:Unit(m, ",
			25,
			call{name: "Unit", argIndex: 1, inCall: true},
		},
		{
			"after_nested_call",
			"#Doc:Scaled(#Doc:Unit(m, metre), ",
			33,
			call{name: "Scaled", argIndex: 1, inCall: true},
		},
		{
			"list_argument",
			"#Doc:Scaled([1, 2, 3], ",
			23,
			call{name: "Scaled", argIndex: 1, inCall: true},
		},
		{"empty_name", "#Doc:(", 6, call{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectCall(%q, %d) = %+v, want %+v", tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tag := tags.Tag{Name: "Unit", Params: []string{"symbol", "name"}, Source: "quantity.doc"}

	tests := []struct {
		name     string
		tag      tags.Tag
		argIndex int
		want     string
	}{
		{"first", tag, 0, "Unit(symbol, name)  quantity.doc"},
		{"second", tag, 1, "Unit(symbol, name)  quantity.doc"},
		{"too_many", tag, 2, "Unit(symbol, name)  too many arguments  quantity.doc"},
		{"no_params", tags.Tag{Name: "Length"}, 0, "Length()"},
		{"no_params_extra", tags.Tag{Name: "Length"}, 1, "Length()  too many arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(renderSignatureHint(tt.tag, tt.argIndex))
			if got != tt.want {
				t.Errorf("renderSignatureHint() = %q, want %q", got, tt.want)
			}
		})
	}
}
