// Package diag defines the diagnostics reported for benchDL scripts and bench
// records, and ways to select and display them.
package diag

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks a diagnostic. Danger outranks Warning.
type Severity int

const (
	// Warning marks a finding that does not prevent the bench from running.
	Warning Severity = iota
	// Danger marks a script that cannot be run as written.
	Danger
)

// String returns the wire name of the severity.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Danger:
		return "danger"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// ParseSeverity parses "warning" or "danger", ignoring case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning", "warn":
		return Warning, nil
	case "danger", "error":
		return Danger, nil
	default:
		return Warning, fmt.Errorf("unknown severity %q", s)
	}
}

// Location is a 1-based position in a script.
type Location struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Diagnostic is a single finding. Location is set only for findings tied to
// a place in the script, such as parse errors.
type Diagnostic struct {
	Severity Severity  `json:"severity"           yaml:"severity"`
	Text     string    `json:"text"               yaml:"text"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Warningf returns a warning with a formatted message.
func Warningf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warning, Text: fmt.Sprintf(format, args...)}
}

// Dangerf returns a danger diagnostic with a formatted message.
func Dangerf(format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Danger, Text: fmt.Sprintf(format, args...)}
}

// At returns a copy of d located at line and col.
func (d Diagnostic) At(line, col int) Diagnostic {
	d.Location = &Location{Line: line, Column: col}

	return d
}

// String returns "severity: text", followed by the location if any.
func (d Diagnostic) String() string {
	if d.Location != nil {
		return d.Severity.String() + ": " + d.Text + " (" + d.Location.String() + ")"
	}

	return d.Severity.String() + ": " + d.Text
}

// Count returns the number of diagnostics with severity sev.
func Count(ds []Diagnostic, sev Severity) int {
	n := 0

	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}

	return n
}

// Worst returns the highest severity in ds. The boolean is false when ds is
// empty.
func Worst(ds []Diagnostic) (Severity, bool) {
	if len(ds) == 0 {
		return Warning, false
	}

	return slices.MaxFunc(ds, func(a, b Diagnostic) int {
		return int(a.Severity) - int(b.Severity)
	}).Severity, true
}
