// Package cli contains the command line interface for unitgen.
//
// # Usage
//
//	unitgen [flags] <command> [args]
//
// Without a command, generate runs. Input locations are global flags shared
// by every command:
//
//   - --decl: declaration files, directories or doublestar patterns
//     (repeatable, default "declarations")
//   - --doc-path: extra directories searched for documentation sources,
//     ahead of those listed in UNITGEN_DOCPATH
//   - --pass-limit: expansion pass limit of the tag engine
//
// # Configuration
//
// Flag defaults are overridden by these YAML files when they exist:
//
//	$XDG_CONFIG_HOME/unitgen/config.yaml
//	./.unitgen.yaml
//
// Nested keys flatten with "-", so
//
//	log:
//	  level: debug
//
// sets --log-level. See [Load]. The init command writes the current flag
// values to the first file.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, warn or error
//   - --log-format: text or json
//   - --log-time-layout: layout name (RFC3339, kitchen, none, ...) or Go layout
//   - --[no-]log-caller, --[no-]log-pretty
//
// # Profiling Options
//
// Only available when built with the pprof build tag:
//
//   - --pprof-mode: profiling mode, see [profile.Modes]
//   - --pprof-dir: output directory (default: <cache>/pprof)
package cli
