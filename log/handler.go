package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type prettyStyles struct {
	time  lipgloss.Style
	key   lipgloss.Style
	msg   lipgloss.Style
	level map[slog.Level]lipgloss.Style
}

func newPrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)

	return prettyStyles{
		time: r.NewStyle().Foreground(lipgloss.Color("8")),
		key:  r.NewStyle().Foreground(lipgloss.Color("8")),
		msg:  r.NewStyle().Bold(true),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): r.NewStyle().Foreground(lipgloss.Color("5")),
			slog.LevelDebug:        r.NewStyle().Foreground(lipgloss.Color("4")),
			slog.LevelInfo:         r.NewStyle().Foreground(lipgloss.Color("2")),
			slog.LevelWarn:         r.NewStyle().Foreground(lipgloss.Color("3")),
			slog.LevelError:        r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		},
	}
}

func (st prettyStyles) forLevel(l slog.Level) lipgloss.Style {
	best, found := slog.Level(LevelTrace), false

	for base := range st.level {
		if base <= l && (!found || base > best) {
			best, found = base, true
		}
	}

	return st.level[best]
}

// prettyHandler writes one styled line per record:
//
//	TIME LEVEL message key=value ...
//
// Colors follow the terminal capabilities of the output.
type prettyHandler struct {
	opts   slog.HandlerOptions
	styles prettyStyles
	mu     *sync.Mutex
	w      io.Writer
	prefix string
	attrs  string
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		styles: newPrettyStyles(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			sb.WriteString(h.styles.time.Render(a.Value.String()))
			sb.WriteByte(' ')
		}
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))
	sb.WriteString(h.styles.forLevel(r.Level).Render(fmt.Sprintf("%-5s", level.Value.String())))
	sb.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			sb.WriteString(h.styles.key.Render(src.File + ":" + strconv.Itoa(src.Line)))
			sb.WriteByte(' ')
		}
	}

	sb.WriteString(h.styles.msg.Render(r.Message))
	sb.WriteString(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&sb, h.prefix, a)

		return true
	})

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, sb.String())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder

	for _, a := range attrs {
		h.appendAttr(&sb, h.prefix, a)
	}

	c := *h
	c.attrs += sb.String()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."

	return &c
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.appendAttr(sb, group, g)
		}

		return
	}

	sb.WriteByte(' ')
	sb.WriteString(h.styles.key.Render(prefix + a.Key + "="))
	sb.WriteString(formatValue(a.Value))
}

func formatValue(v slog.Value) string {
	var s string

	switch v.Kind() {
	case slog.KindTime:
		s = v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = v.String()
		}
	default:
		s = v.String()
	}

	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}

// indentWriter re-indents each JSON record written to it.
type indentWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer

	if err := json.Indent(&buf, bytes.TrimSpace(p), "", "  "); err != nil {
		buf.Reset()
		buf.Write(bytes.TrimSpace(p))
	}

	buf.WriteByte('\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
