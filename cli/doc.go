// Package cli contains the command line interface for benchdl.
//
// # Usage
//
//	benchdl check bench.yaml scripts/*.bdl
//	benchdl analyze --write bench.yaml
//	benchdl fmt json script.bdl
//
// check is the default command, so "benchdl bench.yaml" checks bench.yaml.
// It exits non-zero when any file has a danger diagnostic, or any
// diagnostic at all with --strict.
//
// # Configuration
//
// Flag defaults are read from config.yaml in the user configuration
// directory (e.g. ~/.config/benchdl/config.yaml). "benchdl init" writes the
// current values of the global flags there. Nested YAML mappings are joined
// with "-", so the following are equivalent:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// Logs are written to stderr; command results to stdout.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o benchdl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/benchdl/pprof)
package cli
