package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"
)

// Logger writes leveled, structured records. Loggers are immutable and safe
// for concurrent use. The zero Logger discards everything.
type Logger struct {
	handler  slog.Handler
	settings settings
}

// Make returns a Logger writing to w, configured by opts.
func Make(w io.Writer, opts ...Option) Logger {
	return build(defaults(w).with(opts...))
}

func build(s settings) Logger {
	return Logger{handler: s.newHandler(), settings: s}
}

// Wrap returns a copy of l reconfigured by opts. Attributes added with
// [Logger.With] are not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	if l.handler == nil {
		return Make(nil, opts...)
	}

	return build(l.settings.with(opts...))
}

// With returns a copy of l that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.handler == nil || len(attrs) == 0 {
		return l
	}

	l.handler = l.handler.WithAttrs(attrs)

	return l
}

// Level returns the minimum level l writes.
func (l Logger) Level() Level {
	if l.handler == nil {
		return DefaultLevel
	}

	return l.settings.level
}

// Format returns the encoding l writes.
func (l Logger) Format() Format {
	if l.handler == nil {
		return DefaultFormat
	}

	return l.settings.format
}

// Enabled reports whether l writes records at level.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.handler != nil && l.handler.Enabled(ctx, slog.Level(level))
}

// Slog returns a [slog.Logger] sharing l's handler.
func (l Logger) Slog() *slog.Logger {
	if l.handler == nil {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(l.handler)
}

// TraceContext logs at [LevelTrace].
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, 3, LevelTrace, msg, attrs)
}

// DebugContext logs at [LevelDebug].
func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, 3, LevelDebug, msg, attrs)
}

// InfoContext logs at [LevelInfo].
func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, 3, LevelInfo, msg, attrs)
}

// WarnContext logs at [LevelWarn].
func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, 3, LevelWarn, msg, attrs)
}

// ErrorContext logs at [LevelError].
func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, 3, LevelError, msg, attrs)
}

// log writes a record whose source is the function skip frames above
// runtime.Callers.
func (l Logger) log(
	ctx context.Context,
	skip int,
	level Level,
	msg string,
	attrs []slog.Attr,
) {
	if !l.Enabled(ctx, level) {
		return
	}

	var pc uintptr

	if l.settings.caller {
		var pcs [1]uintptr

		runtime.Callers(skip, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, pc)
	r.AddAttrs(attrs...)

	_ = l.handler.Handle(ctx, r)
}

func (s settings) newHandler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   s.caller,
		Level:       slog.Level(s.level),
		ReplaceAttr: s.replaceAttr,
	}

	switch {
	case s.format == FormatText && s.pretty:
		return newPrettyHandler(s.output, opts)
	case s.format == FormatText:
		return slog.NewTextHandler(s.output, opts)
	case s.pretty:
		return slog.NewJSONHandler(&indentWriter{w: s.output}, opts)
	default:
		return slog.NewJSONHandler(s.output, opts)
	}
}

// replaceAttr applies the time layout and names the trace level.
func (s settings) replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		t, ok := a.Value.Any().(time.Time)
		if !ok {
			return a
		}

		if s.layout == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(t.Format(s.layout))

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}
