package decl

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"slices"
)

// Store is the in-memory catalogue of declarations, keyed by name within
// each family. Entities live in flat slices and are found through per-family
// name indexes, so recursive resolution is repeated table lookups.
//
// A Store is populated by a [Loader] (or the Add methods in tests) and must
// not be modified once resolution begins.
type Store struct {
	scalars []Scalar
	vectors []Vector
	units   []Unit

	index   [3]map[string]int
	origins map[Family]map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	s := &Store{origins: make(map[Family]map[string]string)}

	for i := range s.index {
		s.index[i] = make(map[string]int)
	}

	return s
}

func (s *Store) lazyInit() {
	if s.origins == nil {
		*s = *NewStore()
	}
}

func (s *Store) claim(f Family, name, origin string) error {
	s.lazyInit()

	if prev, ok := s.origins[f][name]; ok {
		return ErrDuplicate.Wrap(
			fmt.Errorf("%s %q already declared in %s", f, name, prev),
		).With(
			slog.String("family", f.String()),
			slog.String("name", name),
			slog.String("first", prev),
		)
	}

	if s.origins[f] == nil {
		s.origins[f] = make(map[string]string)
	}

	s.origins[f][name] = origin

	return nil
}

// AddScalar adds q, recording origin as the file it came from.
func (s *Store) AddScalar(q Scalar, origin string) error {
	if err := s.claim(FamilyScalar, q.Name, origin); err != nil {
		return err
	}

	s.index[FamilyScalar][q.Name] = len(s.scalars)
	s.scalars = append(s.scalars, q)

	return nil
}

// AddVector adds q, recording origin as the file it came from.
func (s *Store) AddVector(q Vector, origin string) error {
	if err := s.claim(FamilyVector, q.Name, origin); err != nil {
		return err
	}

	s.index[FamilyVector][q.Name] = len(s.vectors)
	s.vectors = append(s.vectors, q)

	return nil
}

// AddUnit adds u, recording origin as the file it came from.
func (s *Store) AddUnit(u Unit, origin string) error {
	if err := s.claim(FamilyUnit, u.Name, origin); err != nil {
		return err
	}

	s.index[FamilyUnit][u.Name] = len(s.units)
	s.units = append(s.units, u)

	return nil
}

func (s *Store) lookup(f Family, name string) (int, bool) {
	if s == nil || s.index[f] == nil {
		return 0, false
	}

	i, ok := s.index[f][name]

	return i, ok
}

// Scalar returns the scalar quantity named name.
func (s *Store) Scalar(name string) (*Scalar, bool) {
	if i, ok := s.lookup(FamilyScalar, name); ok {
		return &s.scalars[i], true
	}

	return nil, false
}

// Vector returns the vector quantity named name.
func (s *Store) Vector(name string) (*Vector, bool) {
	if i, ok := s.lookup(FamilyVector, name); ok {
		return &s.vectors[i], true
	}

	return nil, false
}

// Unit returns the unit named name.
func (s *Store) Unit(name string) (*Unit, bool) {
	if i, ok := s.lookup(FamilyUnit, name); ok {
		return &s.units[i], true
	}

	return nil, false
}

// Quantity returns the scalar or vector quantity named name in family f.
func (s *Store) Quantity(f Family, name string) (Quantity, bool) {
	switch f {
	case FamilyScalar:
		if q, ok := s.Scalar(name); ok {
			return q, true
		}
	case FamilyVector:
		if q, ok := s.Vector(name); ok {
			return q, true
		}
	}

	return nil, false
}

// Origin returns the file the entity named name in family f was loaded from.
func (s *Store) Origin(f Family, name string) string {
	if s == nil || s.origins == nil {
		return ""
	}

	return s.origins[f][name]
}

// Names returns the names declared in family f, sorted.
func (s *Store) Names(f Family) []string {
	if s == nil || int(f) < 0 || int(f) >= len(s.index) {
		return nil
	}

	return slices.Sorted(maps.Keys(s.index[f]))
}

// Len returns the number of entities declared in family f.
func (s *Store) Len(f Family) int {
	if s == nil || int(f) < 0 || int(f) >= len(s.index) {
		return 0
	}

	return len(s.index[f])
}

// Scalars iterates the scalar quantities in name order.
func (s *Store) Scalars() iter.Seq[*Scalar] {
	return func(yield func(*Scalar) bool) {
		for _, name := range s.Names(FamilyScalar) {
			if q, ok := s.Scalar(name); ok && !yield(q) {
				return
			}
		}
	}
}

// Vectors iterates the vector quantities in name order.
func (s *Store) Vectors() iter.Seq[*Vector] {
	return func(yield func(*Vector) bool) {
		for _, name := range s.Names(FamilyVector) {
			if q, ok := s.Vector(name); ok && !yield(q) {
				return
			}
		}
	}
}

// Units iterates the units in name order.
func (s *Store) Units() iter.Seq[*Unit] {
	return func(yield func(*Unit) bool) {
		for _, name := range s.Names(FamilyUnit) {
			if u, ok := s.Unit(name); ok && !yield(u) {
				return
			}
		}
	}
}
