// Package profile provides optional runtime profiling for unitgen.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a Stopper
// that does nothing. With it, [github.com/pkg/profile] writes one profile of
// the selected mode (cpu.pprof, mem.pprof, trace.out, ...) into the
// configured directory, and [net/http/pprof] handlers are registered on the
// default mux.
//
//	p := profile.New(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// The CLI exposes the same through --pprof-mode and --pprof-dir; the default
// directory is the pprof subdirectory of the unitgen cache directory.
// Inspect the result with:
//
//	go tool pprof -http=: unitgen cpu.pprof
package profile
