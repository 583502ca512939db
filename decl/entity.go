package decl

//go:generate go tool stringer --linecomment --type Family,RefKind,RuleKind --output decl_string.go

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// Family is the kind of a declared entity.
type Family int

const (
	FamilyScalar Family = iota // scalar
	FamilyVector               // vector
	FamilyUnit                 // unit
)

// Families returns every family in declaration order.
func Families() []Family {
	return []Family{FamilyScalar, FamilyVector, FamilyUnit}
}

// ParseFamily parses the name of a family as written in the type field of a
// declaration.
func ParseFamily(s string) (Family, bool) {
	for _, f := range Families() {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, true
		}
	}

	return 0, false
}

// Filter narrows an ordered entry list: names in Exclude are removed first,
// then, if Include is non-empty, every name not in Include is removed.
type Filter struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// IsZero reports whether f removes nothing.
func (f Filter) IsZero() bool { return len(f.Include) == 0 && len(f.Exclude) == 0 }

// Keeps reports whether an entry named name survives f.
func (f Filter) Keeps(name string) bool {
	if slices.Contains(f.Exclude, name) {
		return false
	}

	return len(f.Include) == 0 || slices.Contains(f.Include, name)
}

// Measure holds the fields scalar and vector quantities share.
type Measure struct {
	Name        string   `yaml:"name"`
	Unit        Ref      `yaml:"unit"`
	Biased      bool     `yaml:"biased,omitempty"`
	DefaultUnit Ref      `yaml:"defaultUnit,omitempty"`
	Units       Filter   `yaml:"units,omitempty"`
	Bases       Filter   `yaml:"bases,omitempty"`
	Constants   Filter   `yaml:"constants,omitempty"`
	Convertible []string `yaml:"convertible,omitempty"`
}

// Quantity is implemented by [*Scalar] and [*Vector].
type Quantity interface {
	Family() Family
	Common() *Measure
}

// Scalar is a one-dimensional physical quantity.
type Scalar struct {
	Measure `yaml:",inline"`

	Vector     Ref      `yaml:"vector,omitempty"`
	Inverse    []string `yaml:"inverse,omitempty"`
	Square     []string `yaml:"square,omitempty"`
	Cube       []string `yaml:"cube,omitempty"`
	SquareRoot []string `yaml:"squareRoot,omitempty"`
	CubeRoot   []string `yaml:"cubeRoot,omitempty"`
}

// Family implements [Quantity].
func (*Scalar) Family() Family { return FamilyScalar }

// Common implements [Quantity].
func (s *Scalar) Common() *Measure { return &s.Measure }

// Vector is a multi-dimensional quantity built from a scalar component.
type Vector struct {
	Measure `yaml:",inline"`

	Component  Ref   `yaml:"component"`
	Dimensions []int `yaml:"dimensions,omitempty"`
}

// Family implements [Quantity].
func (*Vector) Family() Family { return FamilyVector }

// Common implements [Quantity].
func (v *Vector) Common() *Measure { return &v.Measure }

// Unit is a family of measurement units owned by a quantity.
type Unit struct {
	Name      string    `yaml:"name"`
	Quantity  Ref       `yaml:"quantity"`
	Biased    bool      `yaml:"biased,omitempty"`
	Unbiased  Ref       `yaml:"unbiased,omitempty"`
	Formulas  []Formula `yaml:"formulas,omitempty"`
	Units     []Entry   `yaml:"units,omitempty"`
	Constants []Entry   `yaml:"constants,omitempty"`
}

// Formula derives a unit from a signature of other units. Expr refers to the
// signature's slots as {0}, {1}, ...
type Formula struct {
	Signature []string `yaml:"signature,flow"`
	Expr      string   `yaml:"expr"`
}

// String returns the formula in "a * b => expr" form.
func (f Formula) String() string {
	return strings.Join(f.Signature, " * ") + " => " + f.Expr
}

// RuleKind names how a unit entry is constructed.
type RuleKind int

const (
	RuleValue    RuleKind = iota // value
	RuleAlias                    // alias
	RuleDerived                  // derived
	RuleScaled                   // scaled
	RulePrefixed                 // prefixed
	RuleOffset                   // offset
)

// Rule is the construction rule of a unit entry.
// Only the fields relevant to Kind are set.
type Rule struct {
	Kind      RuleKind
	Value     string
	From      string
	Factor    string
	Prefix    string
	Offset    string
	Signature []string
}

// Entry is an element of a unit's units or constants list: either a
// separator marker or a named entry with exactly one construction rule.
type Entry struct {
	Separator bool
	Name      string
	Plural    string
	Symbol    string
	Base      bool
	Rule      Rule
}

// Separator is the YAML scalar that declares a separator entry. A null list
// item and the unquoted form "- -" are accepted as well.
const Separator = "-"

// entryFields is the YAML form of a named entry.
type entryFields struct {
	Name     string   `yaml:"name"`
	Plural   string   `yaml:"plural"`
	Symbol   string   `yaml:"symbol"`
	Base     bool     `yaml:"base"`
	Value    any      `yaml:"value"`
	Alias    string   `yaml:"alias"`
	Derived  []string `yaml:"derived"`
	Scaled   *struct {
		From   string `yaml:"from"`
		Factor any    `yaml:"factor"`
	} `yaml:"scaled"`
	Prefixed *struct {
		From   string `yaml:"from"`
		Prefix string `yaml:"prefix"`
	} `yaml:"prefixed"`
	Offset *struct {
		From   string `yaml:"from"`
		Offset any    `yaml:"offset"`
	} `yaml:"offset"`
}

// UnmarshalYAML decodes a separator scalar or a named entry.
func (e *Entry) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case map[string]any:
	case nil:
		*e = Entry{Separator: true}

		return nil
	case []any:
		// "- -" in a block sequence reads as a nested sequence of one null.
		if len(t) != 1 || t[0] != nil {
			return ErrInvalidEntry.Wrap(fmt.Errorf("sequence entry %v is not a separator", t))
		}

		*e = Entry{Separator: true}

		return nil
	case string:
		if strings.TrimSpace(t) != Separator {
			return ErrInvalidEntry.Wrap(fmt.Errorf("scalar entry %q is not a separator", t))
		}

		*e = Entry{Separator: true}

		return nil
	default:
		return ErrInvalidEntry.Wrap(fmt.Errorf("entry %v is neither a mapping nor a separator", t))
	}

	var f entryFields
	if err := unmarshal(&f); err != nil {
		return err
	}

	if strings.TrimSpace(f.Name) == "" {
		return ErrInvalidEntry.Wrap(fmt.Errorf("entry has no name"))
	}

	*e = Entry{
		Name:   strings.TrimSpace(f.Name),
		Plural: f.Plural,
		Symbol: f.Symbol,
		Base:   f.Base,
	}

	var rules []Rule

	if f.Value != nil {
		rules = append(rules, Rule{Kind: RuleValue, Value: scalarText(f.Value)})
	}

	if f.Alias != "" {
		rules = append(rules, Rule{Kind: RuleAlias, From: f.Alias})
	}

	if len(f.Derived) > 0 {
		rules = append(rules, Rule{Kind: RuleDerived, Signature: f.Derived})
	}

	if f.Scaled != nil {
		rules = append(rules, Rule{
			Kind: RuleScaled, From: f.Scaled.From, Factor: scalarText(f.Scaled.Factor),
		})
	}

	if f.Prefixed != nil {
		rules = append(rules, Rule{
			Kind: RulePrefixed, From: f.Prefixed.From, Prefix: f.Prefixed.Prefix,
		})
	}

	if f.Offset != nil {
		rules = append(rules, Rule{
			Kind: RuleOffset, From: f.Offset.From, Offset: scalarText(f.Offset.Offset),
		})
	}

	if len(rules) != 1 {
		return ErrInvalidEntry.Wrap(
			fmt.Errorf("entry %q has %d construction rules, want exactly 1", e.Name, len(rules)),
		)
	}

	e.Rule = rules[0]

	return nil
}

// MarshalYAML encodes e in the form [Entry.UnmarshalYAML] accepts.
func (e Entry) MarshalYAML() (any, error) {
	if e.Separator {
		return Separator, nil
	}

	m := yaml.MapSlice{{Key: "name", Value: e.Name}}

	if e.Plural != "" {
		m = append(m, yaml.MapItem{Key: "plural", Value: e.Plural})
	}

	if e.Symbol != "" {
		m = append(m, yaml.MapItem{Key: "symbol", Value: e.Symbol})
	}

	if e.Base {
		m = append(m, yaml.MapItem{Key: "base", Value: true})
	}

	switch r := e.Rule; r.Kind {
	case RuleValue:
		m = append(m, yaml.MapItem{Key: "value", Value: r.Value})
	case RuleAlias:
		m = append(m, yaml.MapItem{Key: "alias", Value: r.From})
	case RuleDerived:
		m = append(m, yaml.MapItem{Key: "derived", Value: r.Signature})
	case RuleScaled:
		m = append(m, yaml.MapItem{Key: "scaled", Value: yaml.MapSlice{
			{Key: "from", Value: r.From}, {Key: "factor", Value: r.Factor},
		}})
	case RulePrefixed:
		m = append(m, yaml.MapItem{Key: "prefixed", Value: yaml.MapSlice{
			{Key: "from", Value: r.From}, {Key: "prefix", Value: r.Prefix},
		}})
	case RuleOffset:
		m = append(m, yaml.MapItem{Key: "offset", Value: yaml.MapSlice{
			{Key: "from", Value: r.From}, {Key: "offset", Value: r.Offset},
		}})
	}

	return m, nil
}

// Names returns the names of the named entries in entries, skipping
// separators.
func Names(entries []Entry) []string {
	names := make([]string, 0, len(entries))

	for _, e := range entries {
		if !e.Separator {
			names = append(names, e.Name)
		}
	}

	return names
}

// scalarText renders a decoded YAML scalar as source text.
func scalarText(v any) string {
	if v == nil {
		return ""
	}

	return strings.TrimSpace(fmt.Sprint(v))
}
