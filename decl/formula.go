package decl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/expr-lang/expr"
)

var slotPattern = regexp.MustCompile(`\{(\d+)\}`)

// slotIdent is the identifier a formula slot {i} is compiled as.
func slotIdent(i int) string { return "s" + strconv.Itoa(i) }

// CheckFormula compiles f's expression as a float64-valued expression over
// its signature slots. Slots beyond the signature length are an error.
func CheckFormula(f Formula) error {
	if len(f.Signature) == 0 {
		return fmt.Errorf("formula %q has an empty signature", f.Expr)
	}

	var outOfRange []int

	src := slotPattern.ReplaceAllStringFunc(f.Expr, func(m string) string {
		i, _ := strconv.Atoi(m[1 : len(m)-1])
		if i >= len(f.Signature) {
			outOfRange = append(outOfRange, i)
		}

		return slotIdent(i)
	})

	if len(outOfRange) > 0 {
		return fmt.Errorf("formula %q references slots %v of a %d-unit signature",
			f.Expr, outOfRange, len(f.Signature))
	}

	env := make(map[string]any, len(f.Signature))
	for i := range f.Signature {
		env[slotIdent(i)] = float64(0)
	}

	if _, err := expr.Compile(src, expr.Env(env), expr.AsFloat64()); err != nil {
		return fmt.Errorf("formula %q: %w", f.Expr, err)
	}

	return nil
}

// CheckNumber compiles text as a constant float64-valued expression, the form
// value, factor, and offset rules are written in.
func CheckNumber(text string) error {
	if text == "" {
		return fmt.Errorf("empty numeric expression")
	}

	if _, err := expr.Compile(text, expr.Env(map[string]any{}), expr.AsFloat64()); err != nil {
		return fmt.Errorf("numeric expression %q: %w", text, err)
	}

	return nil
}

// Prefixes are the metric prefix names a prefixed rule may use.
var Prefixes = map[string]string{ //nolint:gochecknoglobals
	"quecto": "1e-30", "ronto": "1e-27", "yocto": "1e-24", "zepto": "1e-21",
	"atto": "1e-18", "femto": "1e-15", "pico": "1e-12", "nano": "1e-9",
	"micro": "1e-6", "milli": "1e-3", "centi": "1e-2", "deci": "1e-1",
	"deca": "1e1", "hecto": "1e2", "kilo": "1e3", "mega": "1e6",
	"giga": "1e9", "tera": "1e12", "peta": "1e15", "exa": "1e18",
	"zetta": "1e21", "yotta": "1e24", "ronna": "1e27", "quetta": "1e30",
}

// CheckEntry verifies the numeric texts and prefix of e's construction rule.
func CheckEntry(e Entry) error {
	if e.Separator {
		return nil
	}

	switch r := e.Rule; r.Kind {
	case RuleValue:
		return CheckNumber(r.Value)
	case RuleScaled:
		return CheckNumber(r.Factor)
	case RuleOffset:
		return CheckNumber(r.Offset)
	case RulePrefixed:
		if _, ok := Prefixes[r.Prefix]; !ok {
			return fmt.Errorf("unknown prefix %q", r.Prefix)
		}
	}

	return nil
}
