package gen

import "github.com/ardnew/unitgen/pkg"

// Sentinel errors returned by a [Generator].
var (
	ErrOutputExists = pkg.NewError("output directory is not empty (use --force)")
	ErrTemplate     = pkg.NewError("parse templates")
	ErrRender       = pkg.NewError("render template")
	ErrDocSource    = pkg.NewError("expand documentation")
	ErrWrite        = pkg.NewError("write artifact")
	ErrWatch        = pkg.NewError("watch inputs")
)
