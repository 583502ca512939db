package resolve

import (
	"slices"

	"github.com/ardnew/unitgen/decl"
)

// Filter applies f to entries and returns the surviving entries in their
// original order. Excluded names are removed first; the include list is then
// applied to what remains. Separators are never removed.
func Filter(entries []decl.Entry, f decl.Filter) []decl.Entry {
	out := slices.Clone(entries)

	if len(f.Exclude) > 0 {
		out = slices.DeleteFunc(out, func(e decl.Entry) bool {
			return !e.Separator && slices.Contains(f.Exclude, e.Name)
		})
	}

	if len(f.Include) > 0 {
		out = slices.DeleteFunc(out, func(e decl.Entry) bool {
			return !e.Separator && !slices.Contains(f.Include, e.Name)
		})
	}

	return out
}
