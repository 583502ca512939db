package cmd

import "github.com/ardnew/unitgen/pkg"

var (
	ErrWriteConfig   = pkg.NewError("write configuration file")
	ErrDiagnostics   = pkg.NewError("errors reported")
	ErrUnknownEntity = pkg.NewError("unknown entity")
)
