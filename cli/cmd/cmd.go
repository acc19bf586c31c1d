package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/diag"
	"github.com/ardnew/benchdl/lang"
	"github.com/ardnew/benchdl/log"
)

// parseCacheSize bounds the parse cache shared by one command invocation.
const parseCacheSize = 64

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	outputKey struct{}
	colorKey  struct{}
)

// WithOutput returns a context whose commands write their results to w
// instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithColor returns a context carrying the --color mode.
func WithColor(ctx context.Context, mode diag.ColorMode) context.Context {
	return context.WithValue(ctx, colorKey{}, mode)
}

func colorFrom(ctx context.Context) diag.ColorMode {
	if mode, ok := ctx.Value(colorKey{}).(diag.ColorMode); ok {
		return mode
	}

	return diag.ColorAuto
}

// newChecker returns a checker logging to the default logger and backed by a
// caching parser.
func newChecker() *bench.Checker {
	logger := log.Default()

	return bench.NewChecker(
		bench.WithLogger(logger),
		bench.WithParser(lang.NewParser(
			lang.WithLogger(logger),
			lang.WithCache(parseCacheSize),
		)),
	)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths drops repeated files from paths, keeping the first spelling of
// each. Files are compared by device and inode after resolving symlinks.
// Every "-" after the first is dropped. Paths that cannot be resolved are
// kept so that loading them reports the error.
func uniquePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[fileKey]struct{})
	stdin := false

	for _, path := range paths {
		if path == bench.Stdin {
			if !stdin {
				out = append(out, path)
			}

			stdin = true

			continue
		}

		key, ok := resolveFileKey(path)
		if !ok {
			out = append(out, path)

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, path)
	}

	return out
}

// resolveFileKey resolves path to its device and inode pair.
func resolveFileKey(path string) (fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// displayName is how a bench path appears in diagnostics.
func displayName(path string) string {
	if path == bench.Stdin {
		return "<stdin>"
	}

	return path
}
