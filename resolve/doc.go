// Package resolve implements the Definition Reference Resolver.
//
// A [Resolver] follows the reference tokens of a [decl.Store] to concrete
// entities and computes the filtered unit, base, and constant views that
// templates consume. Every operation is a pure function of the store and
// returns either a value or an error wrapping [ErrUnresolved]; nothing is
// cached and the store is never modified, so one Resolver may be shared by
// concurrent generators.
//
// Reference tokens resolve as follows:
//
//	$self        the entity of the expected family sharing the referrer's name
//	$component   (vectors) whatever the scalar component resolves to
//	[Name]       the same field of quantity Name, followed transitively
//	literal      a direct name lookup
//
// Alias chains are guarded by a per-call set of entities being resolved, so
// a cyclic chain fails instead of recursing forever.
package resolve
