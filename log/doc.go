// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once, at creation, with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// [Logger.Wrap] derives a logger with some options replaced, and
// [Logger.With] derives one that adds attributes to every record:
//
//	logger = logger.With(slog.String("entity", "Length"))
//	logger.Info("generated") // includes entity=Length
//
// Every level has a context-aware and a context-unaware method. The latter
// use [DefaultContextProvider], which returns [context.TODO].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace is below Debug and records the
// internals of expansion and resolution.
//
// # Formats
//
// [FormatText] (default) writes key=value lines, colorized unless
// [WithPretty] disables it. [FormatJSON] writes one JSON object per record.
//
// # Package-level logger
//
// The functions [Info], [DebugContext], etc. write to a package-level
// logger that [Config] reconfigures. The CLI configures it from flags; other
// packages receive a [Logger] through their own options and fall back to the
// zero value, which discards everything.
package log
