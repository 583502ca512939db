// Package decl holds the Definition Store: the scalar quantity, vector
// quantity, and unit declarations a generation run works from.
//
// Declarations are YAML files, one record per file, discovered with
// doublestar glob patterns and decoded with goccy/go-yaml:
//
//	type: scalar
//	name: Temperature
//	unit: $self
//	vector: $self
//	biased: true
//	defaultUnit: kelvin
//
// Fields holding a reference token ([Ref]) may name an entity literally, or
// use $self, $component, or a bracket-wrapped alias such as [Length].
//
// A [Loader] validates each record as it is read. Defective records are
// reported to a [diag.Sink] and skipped; the rest of the batch still loads.
// The resulting [Store] is never modified after [Loader.Load] returns.
package decl
