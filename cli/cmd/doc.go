// Package cmd implements the unitgen commands.
//
// Every command receives the shared [Inputs] bound by the root parser and
// reports authoring defects through a [diag.Collector]. A command that saw
// error-severity diagnostics fails with [ErrDiagnostics] after finishing its
// work, so generated files and printed output are never withheld.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file written by [Init].
	ConfigIdentifier = "config"

	// PassLimitIdentifier is the kong variable identifier containing the
	// default tag expansion pass limit.
	PassLimitIdentifier = "passLimit"
)
