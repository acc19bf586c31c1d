package log

import (
	"io"
	"strings"
	"time"
)

// DefaultTimeLayout is the timestamp layout of a logger made without
// [WithTimeLayout].
const DefaultTimeLayout = time.RFC3339

// settings is the immutable configuration behind a [Logger].
type settings struct {
	output io.Writer
	layout string
	level  Level
	format Format
	caller bool
	pretty bool
}

func defaults(w io.Writer) settings {
	if w == nil {
		w = io.Discard
	}

	return settings{
		output: w,
		layout: DefaultTimeLayout,
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: true,
	}
}

func (s settings) with(opts ...Option) settings {
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// Option configures a [Logger].
type Option func(*settings)

// WithOutput sets the writer records are written to. A nil writer discards
// everything.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w == nil {
			w = io.Discard
		}

		s.output = w
	}
}

// WithLevel sets the minimum level of records written.
func WithLevel(level Level) Option {
	return func(s *settings) { s.level = level }
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithTimeLayout sets the timestamp layout. The layout is either the
// case-insensitive name of a [time] layout constant, such as "RFC3339Nano"
// or "Kitchen", or a layout string passed to [time.Time.Format] verbatim.
// An empty layout or "none" omits timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *settings) { s.layout = resolveLayout(layout) }
}

// WithCaller includes the source file and line of the logging call.
func WithCaller(enable bool) Option {
	return func(s *settings) { s.caller = enable }
}

// WithPretty selects human-oriented output: styled text, or indented JSON.
func WithPretty(enable bool) Option {
	return func(s *settings) { s.pretty = enable }
}

var namedLayouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
}

func resolveLayout(layout string) string {
	key := strings.ToLower(strings.TrimSpace(layout))
	if key == "" {
		return ""
	}

	if std, ok := namedLayouts[key]; ok {
		return std
	}

	return layout
}
