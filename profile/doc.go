// Package profile provides optional runtime profiling for benchdl.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without it, [Config.Start] returns a no-op and [Modes]
// is empty, so the --pprof-mode flag is not offered.
//
//	go build -tags pprof .
//	benchdl --pprof-mode cpu check scripts/*.yaml
//	go tool pprof -http=: $XDG_CACHE_HOME/benchdl/pprof/cpu.pprof
//
// Supported modes are allocs, block, clock, cpu, goroutine, heap, mem,
// mutex, thread and trace. The pprof build also registers the
// [net/http/pprof] handlers.
//
// Checking many bench files is dominated by parsing, so the cpu and allocs
// modes are the useful ones for tuning the parser and its cache.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
