package repl

import "github.com/ardnew/unitgen/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds = pkg.NewError("history index out of range")
	ErrNoSource    = pkg.NewError("no documentation source")
)
