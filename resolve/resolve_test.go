package resolve

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/ardnew/unitgen/decl"
	"github.com/ardnew/unitgen/diag"
)

func entry(name string, base bool) decl.Entry {
	return decl.Entry{
		Name:   name,
		Plural: name + "s",
		Base:   base,
		Rule:   decl.Rule{Kind: decl.RuleValue, Value: "1"},
	}
}

var separator = decl.Entry{Separator: true}

func scalar(name string, unit decl.Ref, mod ...func(*decl.Scalar)) decl.Scalar {
	s := decl.Scalar{Measure: decl.Measure{Name: name, Unit: unit}}
	for _, m := range mod {
		m(&s)
	}

	return s
}

// fixture returns a store exercising every kind of reference token.
func fixture(t *testing.T) *decl.Store {
	t.Helper()

	store := decl.NewStore()
	must := func(err error) {
		t.Helper()

		if err != nil {
			t.Fatal(err)
		}
	}

	must(store.AddUnit(decl.Unit{
		Name:     "Length",
		Quantity: decl.Ref{Kind: decl.RefSelf},
		Units: []decl.Entry{
			entry("meter", true), separator, entry("kilometer", false),
			entry("foot", false), entry("mile", false),
		},
		Constants: []decl.Entry{entry("lightYear", false), entry("parsec", false)},
	}, "unit/Length.yaml"))
	must(store.AddUnit(decl.Unit{
		Name:     "Time",
		Quantity: decl.Literal("Time"),
		Units:    []decl.Entry{entry("second", true), entry("minute", false)},
	}, "unit/Time.yaml"))
	must(store.AddUnit(decl.Unit{
		Name:     "Temperature",
		Quantity: decl.Ref{Kind: decl.RefSelf},
		Biased:   true,
		Unbiased: decl.Literal("Time"),
		Units:    []decl.Entry{entry("kelvin", true)},
	}, "unit/Temperature.yaml"))
	must(store.AddUnit(decl.Unit{
		Name:     "Celsius",
		Quantity: decl.Alias("Temperature"),
	}, "unit/Celsius.yaml"))

	for _, s := range []decl.Scalar{
		scalar("Length", decl.Ref{Kind: decl.RefSelf}, func(s *decl.Scalar) {
			s.Vector = decl.Ref{Kind: decl.RefSelf}
			s.Units = decl.Filter{Exclude: []string{"mile"}}
			s.Bases = decl.Filter{Include: []string{"meter", "foot"}}
			s.Constants = decl.Filter{Exclude: []string{"parsec"}}
			s.Convertible = []string{"Distance", "Nowhere"}
			s.Square = []string{"Area"}
		}),
		scalar("Distance", decl.Alias("Length"), func(s *decl.Scalar) {
			s.DefaultUnit = decl.Literal("kilometer")
			s.Vector = decl.Alias("Length")
		}),
		scalar("Span", decl.Alias("Distance"), func(s *decl.Scalar) {
			s.DefaultUnit = decl.Alias("Distance")
		}),
		scalar("Gap", decl.Alias("Span")),
		scalar("Time", decl.Ref{Kind: decl.RefSelf}),
		scalar("Area", decl.Literal("Area")),
		scalar("Loop", decl.Alias("Pool")),
		scalar("Pool", decl.Alias("Loop")),
		scalar("Short", decl.Ref{Kind: decl.RefSelf}, func(s *decl.Scalar) {
			s.Units = decl.Filter{Exclude: []string{"meter"}}
		}),
		scalar("Hidden", decl.Literal("Length"), func(s *decl.Scalar) {
			s.Units = decl.Filter{Exclude: []string{"mile"}}
			s.DefaultUnit = decl.Literal("mile")
		}),
	} {
		must(store.AddScalar(s, "scalar/"+s.Name+".yaml"))
	}

	for _, v := range []decl.Vector{
		{
			Measure: decl.Measure{
				Name:        "Length",
				Unit:        decl.Ref{Kind: decl.RefComponent},
				DefaultUnit: decl.Ref{Kind: decl.RefComponent},
			},
			Component:  decl.Ref{Kind: decl.RefSelf},
			Dimensions: []int{2, 3},
		},
		{
			Measure:   decl.Measure{Name: "Offset", Unit: decl.Alias("Length")},
			Component: decl.Alias("Length"),
		},
		{
			Measure:   decl.Measure{Name: "Broken", Unit: decl.Ref{Kind: decl.RefComponent}},
			Component: decl.Ref{Kind: decl.RefComponent},
		},
	} {
		must(store.AddVector(v, "vector/"+v.Name+".yaml"))
	}

	return store
}

func TestUnit(t *testing.T) {
	store := fixture(t)
	r := New(store)

	tests := []struct {
		family decl.Family
		name   string
		want   string
	}{
		{decl.FamilyScalar, "Length", "Length"},
		{decl.FamilyScalar, "Distance", "Length"},
		{decl.FamilyScalar, "Span", "Length"},
		{decl.FamilyScalar, "Gap", "Length"},
		{decl.FamilyScalar, "Time", "Time"},
		{decl.FamilyScalar, "Area", ""},
		{decl.FamilyScalar, "Loop", ""},
		{decl.FamilyVector, "Length", "Length"},
		{decl.FamilyVector, "Offset", "Length"},
		{decl.FamilyVector, "Broken", ""},
	}

	for _, tt := range tests {
		t.Run(tt.family.String()+"/"+tt.name, func(t *testing.T) {
			q, ok := store.Quantity(tt.family, tt.name)
			if !ok {
				t.Fatalf("%s %s not in fixture", tt.family, tt.name)
			}

			u, err := r.Unit(q)
			if tt.want == "" {
				if !errors.Is(err, ErrUnresolved) {
					t.Fatalf("Unit() = %v, %v; want ErrUnresolved", u, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Unit(): %v", err)
			}

			if u.Name != tt.want {
				t.Errorf("Unit() = %s, want %s", u.Name, tt.want)
			}
		})
	}
}

func TestUnitIdempotent(t *testing.T) {
	store := fixture(t)
	r := New(store)

	for q := range store.Scalars() {
		a, errA := r.Unit(q)
		b, errB := r.Unit(q)

		if a != b || (errA == nil) != (errB == nil) {
			t.Errorf("%s: Unit() not idempotent: %v/%v, %v/%v", q.Name, a, b, errA, errB)
		}
	}
}

func TestAliasChainMatchesManualFollowing(t *testing.T) {
	store := fixture(t)
	r := New(store)

	q, _ := store.Scalar("Gap")

	// Follow the chain by hand, counting steps.
	var (
		cur   = q
		steps = 0
	)

	for cur.Unit.Kind == decl.RefAlias {
		next, ok := store.Scalar(cur.Unit.Name)
		if !ok {
			t.Fatalf("chain broken at %s", cur.Name)
		}

		cur = next
		steps++
	}

	want, _ := store.Unit(cur.Unit.Target(cur.Name))

	got, err := r.Unit(q)
	if err != nil {
		t.Fatal(err)
	}

	if got != want {
		t.Errorf("Unit(Gap) = %s, manual = %s", got.Name, want.Name)
	}

	if steps != 3 {
		t.Errorf("chain length = %d, want 3", steps)
	}
}

func TestCycleAndComponentGuard(t *testing.T) {
	store := fixture(t)
	r := New(store)

	loop, _ := store.Scalar("Loop")

	_, err := r.Unit(loop)
	if !errors.Is(err, ErrUnresolved) || !strings.Contains(err.Error(), "cycle") {
		t.Errorf("Unit(Loop) error = %v, want reference cycle", err)
	}

	broken, _ := store.Vector("Broken")

	_, err = r.Component(broken)
	if !errors.Is(err, ErrUnresolved) || !strings.Contains(err.Error(), "itself") {
		t.Errorf("Component(Broken) error = %v, want self-reference", err)
	}

	var f *Failure
	if !errors.As(err, &f) || f.Entity != "Broken" || f.Field != "component" {
		t.Errorf("failure = %+v", f)
	}
}

func TestFilterComposition(t *testing.T) {
	all := []decl.Entry{
		entry("a", true), separator, entry("b", false), entry("c", false), entry("d", false),
	}
	names := []string{"a", "b", "c", "d", "x"}

	// Every pair of include and exclude subsets of names.
	subsets := func() [][]string {
		var out [][]string
		for mask := range 1 << len(names) {
			var s []string

			for i, n := range names {
				if mask&(1<<i) != 0 {
					s = append(s, n)
				}
			}

			out = append(out, s)
		}

		return out
	}()

	for _, inc := range subsets {
		for _, exc := range subsets {
			f := decl.Filter{Include: inc, Exclude: exc}
			got := Filter(all, f)

			seps := 0

			for _, e := range got {
				if e.Separator {
					seps++

					continue
				}

				if slices.Contains(exc, e.Name) {
					t.Fatalf("Filter(%+v) returned excluded %s", f, e.Name)
				}

				if len(inc) > 0 && !slices.Contains(inc, e.Name) {
					t.Fatalf("Filter(%+v) returned non-included %s", f, e.Name)
				}
			}

			if seps != 1 {
				t.Fatalf("Filter(%+v) dropped a separator", f)
			}
		}
	}
}

func TestFilterOrder(t *testing.T) {
	all := []decl.Entry{entry("a", false), entry("b", false), entry("c", false)}

	got := Filter(all, decl.Filter{Include: []string{"c", "a"}})
	if n := decl.Names(got); !slices.Equal(n, []string{"a", "c"}) {
		t.Errorf("Filter() = %v, want declaration order [a c]", n)
	}

	if len(all) != 3 {
		t.Error("Filter() modified its input")
	}
}

func TestUnitsBasesConstants(t *testing.T) {
	store := fixture(t)
	r := New(store)

	length, _ := store.Scalar("Length")

	units, err := r.Units(length)
	if err != nil {
		t.Fatal(err)
	}

	if n := decl.Names(units); !slices.Equal(n, []string{"meter", "kilometer", "foot"}) {
		t.Errorf("Units() = %v", n)
	}

	if len(units) != 4 || !units[1].Separator {
		t.Errorf("Units() lost the separator: %+v", units)
	}

	bases, err := r.Bases(length)
	if err != nil {
		t.Fatal(err)
	}

	if n := decl.Names(bases); !slices.Equal(n, []string{"meter", "foot"}) {
		t.Errorf("Bases() = %v", n)
	}

	constants, err := r.Constants(length)
	if err != nil {
		t.Fatal(err)
	}

	if n := decl.Names(constants); !slices.Equal(n, []string{"lightYear"}) {
		t.Errorf("Constants() = %v", n)
	}

	// Bases is a subset of Units for every quantity in the fixture.
	for q := range store.Scalars() {
		us, errU := r.Units(q)
		bs, errB := r.Bases(q)

		if errU != nil || errB != nil {
			continue
		}

		for _, name := range decl.Names(bs) {
			if !slices.Contains(decl.Names(us), name) {
				t.Errorf("%s: base %s not among units", q.Name, name)
			}
		}
	}
}

func TestDefaultUnit(t *testing.T) {
	store := fixture(t)
	r := New(store)

	tests := []struct {
		family decl.Family
		name   string
		want   string
	}{
		{decl.FamilyScalar, "Length", "meter"},
		{decl.FamilyScalar, "Distance", "kilometer"},
		{decl.FamilyScalar, "Span", "kilometer"},
		{decl.FamilyScalar, "Time", "second"},
		{decl.FamilyVector, "Length", "meter"},
		{decl.FamilyScalar, "Short", ""},
		{decl.FamilyScalar, "Hidden", ""},
		{decl.FamilyVector, "Broken", ""},
	}

	for _, tt := range tests {
		t.Run(tt.family.String()+"/"+tt.name, func(t *testing.T) {
			q, _ := store.Quantity(tt.family, tt.name)

			e, err := r.DefaultUnit(q)
			if tt.want == "" {
				if !errors.Is(err, ErrUnresolved) {
					t.Fatalf("DefaultUnit() = %+v, %v; want ErrUnresolved", e, err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if e.Name != tt.want {
				t.Errorf("DefaultUnit() = %s, want %s", e.Name, tt.want)
			}
		})
	}
}

func TestPairingAndConvertibles(t *testing.T) {
	store := fixture(t)
	r := New(store)

	length, _ := store.Scalar("Length")
	distance, _ := store.Scalar("Distance")
	offset, _ := store.Vector("Offset")

	for _, s := range []*decl.Scalar{length, distance} {
		v, err := r.Vector(s)
		if err != nil || v.Name != "Length" {
			t.Errorf("Vector(%s) = %v, %v", s.Name, v, err)
		}
	}

	if c, err := r.Component(offset); err != nil || c.Name != "Length" {
		t.Errorf("Component(Offset) = %v, %v", c, err)
	}

	qs, err := r.Convertibles(length)
	if !errors.Is(err, ErrUnresolved) {
		t.Errorf("Convertibles() error = %v, want ErrUnresolved for Nowhere", err)
	}

	if len(qs) != 1 || qs[0].Common().Name != "Distance" {
		t.Errorf("Convertibles() = %v", qs)
	}

	p, err := r.Powers(length)
	if err != nil || len(p.Square) != 1 || p.Square[0].Name != "Area" {
		t.Errorf("Powers() = %+v, %v", p, err)
	}
}

func TestOwnerAndUnbiased(t *testing.T) {
	store := fixture(t)
	r := New(store)

	celsius, _ := store.Unit("Celsius")

	// The alias reaches Temperature's own $self, and no quantity is named
	// Temperature.
	if owner, err := r.Owner(celsius); !errors.Is(err, ErrUnresolved) {
		t.Errorf("Owner(Celsius) = %v, %v; want ErrUnresolved", owner, err)
	}

	timeUnit, _ := store.Unit("Time")
	if q, err := r.Owner(timeUnit); err != nil || q.Family() != decl.FamilyScalar {
		t.Errorf("Owner(Time) = %v, %v", q, err)
	}

	temp, _ := store.Unit("Temperature")

	q, err := r.Unbiased(temp)
	if err != nil || q.Common().Name != "Time" {
		t.Errorf("Unbiased(Temperature) = %v, %v", q, err)
	}

	length, _ := store.Unit("Length")

	if q, err := r.Unbiased(length); q != nil || err != nil {
		t.Errorf("Unbiased(Length) = %v, %v; want nil, nil", q, err)
	}

	if q, err := r.Owner(length); err != nil || q.Common().Name != "Length" {
		t.Errorf("Owner(Length) = %v, %v", q, err)
	}
}

func TestSuggest(t *testing.T) {
	r := New(fixture(t))

	got := r.Suggest(decl.FamilyUnit, "Lnth")
	if len(got) == 0 || got[0] != "Length" {
		t.Errorf("Suggest(Lnth) = %v", got)
	}

	if got := r.Suggest(decl.FamilyUnit, ""); got != nil {
		t.Errorf("Suggest(\"\") = %v", got)
	}

	area, _ := fixture(t).Scalar("Area")

	_, err := r.Unit(area)
	if err == nil || !strings.Contains(err.Error(), "no unit named") {
		t.Errorf("Unit(Area) error = %v", err)
	}
}

func TestView(t *testing.T) {
	store := fixture(t)

	var sink diag.Collector

	r := New(store, WithSink(&sink))

	length, _ := store.Scalar("Length")
	v := r.View(length)

	if v.Unit != "Length" || v.DefaultUnit != "meter" || v.Vector != "Length" {
		t.Errorf("View(Length) = %+v", v)
	}

	if !slices.Equal(v.Units, []string{"meter", decl.Separator, "kilometer", "foot"}) {
		t.Errorf("View(Length).Units = %v", v.Units)
	}

	wantConv := []string{"Distance", diag.Sentinel(diag.UnresolvedReference, "Length.convertible")}
	if !slices.Equal(v.Convertible, wantConv) {
		t.Errorf("View(Length).Convertible = %v, want %v", v.Convertible, wantConv)
	}

	if v.Failed != 1 {
		t.Errorf("View(Length).Failed = %d, want 1", v.Failed)
	}

	sink.Reset()

	area, _ := store.Scalar("Area")
	v = r.View(area)

	if v.Unit != diag.Sentinel(diag.UnresolvedReference, "Area.unit") {
		t.Errorf("View(Area).Unit = %q", v.Unit)
	}

	recs := sink.Records()
	if len(recs) != 1 || recs[0].Kind != diag.UnresolvedReference || recs[0].Entity != "Area" {
		t.Errorf("View(Area) reported %+v, want one UnresolvedReference", recs)
	}

	if recs[0].Source != "scalar/Area.yaml" {
		t.Errorf("record source = %q", recs[0].Source)
	}

	vec, _ := store.Vector("Length")
	if v := r.View(vec); v.Component != "Length" || !slices.Equal(v.Dimensions, []int{2, 3}) {
		t.Errorf("View(vector Length) = %+v", v)
	}

	temp, _ := store.Unit("Temperature")
	if v := r.UnitView(temp); v.Unbiased != "Time" || v.Family != "unit" {
		t.Errorf("UnitView(Temperature) = %+v", v)
	}
}

func TestViewUnresolvedPower(t *testing.T) {
	store := fixture(t)
	if err := store.AddScalar(scalar("Width", decl.Alias("Length"), func(s *decl.Scalar) {
		s.Square = []string{"Area", "Aera"}
		s.Cube = []string{"Volume"}
	}), "scalar/Width.yaml"); err != nil {
		t.Fatal(err)
	}

	var sink diag.Collector

	r := New(store, WithSink(&sink))

	width, _ := store.Scalar("Width")
	v := r.View(width)

	wantSquare := []string{"Area", diag.Sentinel(diag.UnresolvedReference, "Width.square")}
	if !slices.Equal(v.Square, wantSquare) {
		t.Errorf("View(Width).Square = %v, want %v", v.Square, wantSquare)
	}

	wantCube := []string{diag.Sentinel(diag.UnresolvedReference, "Width.cube")}
	if !slices.Equal(v.Cube, wantCube) {
		t.Errorf("View(Width).Cube = %v, want %v", v.Cube, wantCube)
	}

	if v.Inverse != nil {
		t.Errorf("View(Width).Inverse = %v, want none", v.Inverse)
	}

	if v.Failed != 2 {
		t.Errorf("View(Width).Failed = %d, want 2", v.Failed)
	}

	if n := sink.Kinds()[diag.UnresolvedReference]; n != 2 {
		t.Errorf("UnresolvedReference reported %d times, want 2: %+v", n, sink.Records())
	}
}
