// Package edit implements an interactive bench editor. The script is edited
// in a text area while diagnostics and the reconciled environment are
// recomputed after every change.
package edit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/diag"
	"github.com/ardnew/benchdl/lang"
	"github.com/ardnew/benchdl/log"
)

const (
	defaultWidth  = 100
	defaultHeight = 24
	parseCache    = 16
)

// Edit opens a bench in the interactive editor.
type Edit struct {
	File string `arg:"" help:"Bench file to edit; created from the default template if missing." name:"file" type:"path"`
}

// Run executes the edit command.
func (e *Edit) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger := log.Default()

	b, err := bench.Load(ctx, e.File)
	if errors.Is(err, os.ErrNotExist) {
		b, err = newBench(ctx, e.File)
		if err != nil {
			return err
		}

		logger.DebugContext(ctx, "editing new bench", slog.String("path", e.File))
	} else if err != nil {
		return err
	}

	checker := bench.NewChecker(
		bench.WithLogger(logger),
		bench.WithParser(lang.NewParser(
			lang.WithLogger(logger),
			lang.WithCache(parseCache),
		)),
	)

	p := tea.NewProgram(
		newModel(ctx, e.File, b, checker),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)
	_, err = p.Run()

	return err
}

// newBench returns the default bench for a file that does not exist yet. A
// path naming a script file starts from the default script alone.
func newBench(ctx context.Context, path string) (*bench.Bench, error) {
	b := bench.Default()
	if !bench.IsScript(path, nil) {
		return b, nil
	}

	return bench.Decode(ctx, path, []byte(b.ScriptBody))
}

// Styles.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	unusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	extraStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	panelStyle   = lipgloss.NewStyle().PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true)
)

// model is the Bubble Tea model for the editor.
type model struct {
	ctx         context.Context
	path        string
	bench       *bench.Bench
	checker     *bench.Checker
	editor      textarea.Model
	result      bench.AnalysisResult
	diags       []diag.Diagnostic
	suggestions []bench.Suggestion
	status      string
	dirty       bool
	width       int
	height      int
}

func newModel(
	ctx context.Context,
	path string,
	b *bench.Bench,
	checker *bench.Checker,
) model {
	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(b.ScriptBody)
	ta.Focus()

	m := model{
		ctx:     ctx,
		path:    path,
		bench:   b,
		checker: checker,
		editor:  ta,
		status:  "ctrl+s save · esc quit",
	}

	m.resize(defaultWidth, defaultHeight)
	m.refresh()

	return m
}

// Init implements [tea.Model].
func (m model) Init() tea.Cmd { return textarea.Blink }

// Update implements [tea.Model].
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+s":
			m.save()

			return m, nil
		}
	}

	before := m.editor.Value()

	var cmd tea.Cmd

	m.editor, cmd = m.editor.Update(msg)

	if m.editor.Value() != before {
		m.dirty = true
		m.refresh()
	}

	return m, cmd
}

// resize splits the screen between the editor and the side panel.
func (m *model) resize(width, height int) {
	m.width, m.height = width, height

	m.editor.SetWidth(width * 3 / 5)
	m.editor.SetHeight(max(height-2, 1))
}

// refresh re-runs the checker over the current script.
func (m *model) refresh() {
	m.bench.ScriptBody = m.editor.Value()
	m.result = m.checker.Analyze(m.ctx, m.bench)
	m.diags = m.checker.GetErrors(m.ctx, m.bench)
	m.suggestions = bench.Suggest(m.result)
}

// save writes the bench with undeclared variables added to its env. Benches
// loaded from bare scripts are written back as plain text.
func (m *model) save() {
	out := m.bench.WithExtra(m.result)

	if err := bench.Save(m.path, out); err != nil {
		m.status = dangerStyle.Render("save failed: " + err.Error())

		return
	}

	m.bench = out
	m.dirty = false
	m.status = okStyle.Render("saved " + m.path)
	m.refresh()
}

// View implements [tea.Model].
func (m model) View() string {
	panel := panelStyle.
		Width(max(m.width-m.editor.Width()-4, 10)).
		Height(max(m.height-2, 1)).
		Render(m.panelView())

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.editor.View(), panel)

	return body + "\n" + m.statusView()
}

func (m model) panelView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Diagnostics"))
	sb.WriteByte('\n')

	if len(m.diags) == 0 {
		sb.WriteString(okStyle.Render("no problems"))
		sb.WriteByte('\n')
	}

	for _, d := range m.diags {
		style := warningStyle
		if d.Severity == diag.Danger {
			style = dangerStyle
		}

		sb.WriteString(style.Render(d.Severity.String()))
		sb.WriteString(" ")
		sb.WriteString(d.Text)
		sb.WriteByte('\n')
	}

	sb.WriteByte('\n')
	sb.WriteString(titleStyle.Render("Environment"))
	sb.WriteByte('\n')

	for _, ev := range m.result.Env {
		line := ev.Name + " = " + ev.Value
		if ev.Unused {
			line = unusedStyle.Render(line) + hintStyle.Render(" unused")
		}

		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	for _, ev := range m.result.Extra {
		sb.WriteString(extraStyle.Render(ev.Name + " = " + ev.Value))
		sb.WriteString(hintStyle.Render(" undeclared"))
		sb.WriteByte('\n')
	}

	for _, s := range m.suggestions {
		sb.WriteString(hintStyle.Render(
			fmt.Sprintf("%s: did you mean %s?", s.Used, s.Declared)))
		sb.WriteByte('\n')
	}

	return sb.String()
}

func (m model) statusView() string {
	name := m.path
	if m.dirty {
		name += " [+]"
	}

	return hintStyle.Render(fmt.Sprintf("%s  line %d  ", name, m.editor.Line()+1)) +
		m.status
}
