package diag

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// ColorMode selects whether output is styled.
type ColorMode string

// Color modes accepted by --color.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Enabled reports whether output written to w should be styled. In auto mode
// that is the case when w is a terminal and NO_COLOR is unset.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderOptions controls [Render].
type RenderOptions struct {
	// File prefixes each line, as in "file:line:col: ...".
	File string
	// Source, if set, is the script text; located diagnostics are followed
	// by the offending line and a caret.
	Source string
	// Color enables lipgloss styling.
	Color bool
}

type styles struct {
	file, location, warning, danger lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		file:     r.NewStyle().Bold(true),
		location: r.NewStyle().Foreground(lipgloss.Color("8")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		danger:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Render writes one line per diagnostic to w:
//
//	file:line:col: severity: text
//
// The file and location prefixes are omitted when unknown.
func Render(w io.Writer, ds []Diagnostic, opts RenderOptions) error {
	st := newStyles(w, opts.Color)

	var sb strings.Builder

	for _, d := range ds {
		prefixed := false

		if opts.File != "" {
			sb.WriteString(st.file.Render(opts.File))
			sb.WriteString(":")

			prefixed = true
		}

		if d.Location != nil {
			sb.WriteString(st.location.Render(d.Location.String()))
			sb.WriteString(":")

			prefixed = true
		}

		if prefixed {
			sb.WriteByte(' ')
		}

		sev := st.warning
		if d.Severity == Danger {
			sev = st.danger
		}

		sb.WriteString(sev.Render(d.Severity.String()))
		sb.WriteString(": ")
		sb.WriteString(d.Text)
		sb.WriteByte('\n')

		if d.Location != nil && opts.Source != "" {
			sb.WriteString(snippet(opts.Source, d.Location.Line, d.Location.Column))
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}

// snippet returns the given line of source and a caret under col.
func snippet(source string, line, col int) string {
	lines := strings.Split(source, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}

	text := strings.TrimRight(lines[line-1], "\r")

	pad := ""
	if col > 1 {
		pad = strings.Repeat(" ", col-1)
	}

	return "    " + text + "\n    " + pad + "^\n"
}
