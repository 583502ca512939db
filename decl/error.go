package decl

import "github.com/ardnew/unitgen/pkg"

// Sentinel errors returned while decoding and storing declarations.
var (
	ErrInvalidRef         = pkg.NewError("invalid reference token")
	ErrInvalidEntry       = pkg.NewError("invalid unit entry")
	ErrInvalidDeclaration = pkg.NewError("invalid declaration")
	ErrDuplicate          = pkg.NewError("duplicate declaration")
	ErrNoDeclarations     = pkg.NewError("no declaration files matched")
)
