package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

var std atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	std.Store(&l)
}

// Config reconfigures the package-level logger.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	std.Store(&l)
}

// Default returns the package-level logger. Components that accept a
// [Logger] option are usually handed this one by the command line.
func Default() Logger { return *std.Load() }

// The package-level functions below log through [Default], reporting their
// own caller as the record source.

func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelTrace, msg, attrs)
}

func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelDebug, msg, attrs)
}

func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelInfo, msg, attrs)
}

func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelWarn, msg, attrs)
}

func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 3, LevelError, msg, attrs)
}

// Error logs at [LevelError] without a context.
func Error(msg string, attrs ...slog.Attr) {
	Default().log(context.Background(), 3, LevelError, msg, attrs)
}
