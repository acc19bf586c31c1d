package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/lang"
	"github.com/ardnew/benchdl/log"
)

// Output formats shared by analyze and vars.
const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

// Analyze reconciles a bench's env with the variables its script uses.
type Analyze struct {
	File   string `arg:"" default:"-" help:"Bench file or '-' for stdin." name:"file"`
	Output string `default:"table" enum:"table,yaml,json" help:"Output format." short:"o"`
	Write  bool   `help:"Save the reconciled env, with undeclared variables appended, back to the file." short:"w"`
}

// analysis is the structured output of the analyze command.
type analysis struct {
	Env         []*bench.EnvVar    `json:"env"         yaml:"env"`
	Extra       []*bench.EnvVar    `json:"extra"       yaml:"extra"`
	Suggestions []bench.Suggestion `json:"suggestions" yaml:"suggestions"`
}

// Run executes the analyze command.
func (a *Analyze) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if a.Write && a.File == bench.Stdin {
		return ErrNotWritable.With(slog.String("file", a.File))
	}

	b, err := bench.Load(ctx, a.File)
	if err != nil {
		return err
	}

	if a.Write && b.IsScriptFile() {
		return ErrNotWritable.With(slog.String("file", a.File))
	}

	r := newChecker().Analyze(ctx, b)
	res := analysis{Env: r.Env, Extra: r.Extra, Suggestions: bench.Suggest(r)}

	if err := writeAnalysis(outputFrom(ctx), res, a.Output); err != nil {
		return err
	}

	if !a.Write {
		return nil
	}

	if err := bench.Save(a.File, b.WithExtra(r)); err != nil {
		return ErrWriteBench.Wrap(err).With(slog.String("file", a.File))
	}

	log.InfoContext(ctx, "bench updated",
		slog.String("file", a.File),
		slog.Int("added", len(r.Extra)))

	return nil
}

func writeAnalysis(w io.Writer, res analysis, format string) error {
	switch format {
	case outputYAML:
		return writeYAML(w, res)

	case outputJSON:
		return writeJSON(w, res)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Value", "Status"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, ev := range res.Env {
		status := "used"
		if ev.Unused {
			status = "unused"
		}

		table.Append([]string{strconv.Itoa(ev.ID), ev.Name, ev.Value, status})
	}

	for _, ev := range res.Extra {
		table.Append([]string{strconv.Itoa(ev.ID), ev.Name, ev.Value, "undeclared"})
	}

	table.Render()

	for _, s := range res.Suggestions {
		if _, err := fmt.Fprintf(w, "script uses %q; did you mean the unused %q?\n",
			s.Used, s.Declared); err != nil {
			return err
		}
	}

	return nil
}

// Vars prints the variables a script uses with their default values.
type Vars struct {
	File   string `arg:"" default:"-" help:"Bench file, script, or '-' for stdin." name:"file"`
	Output string `default:"table" enum:"table,yaml,json" help:"Output format." short:"o"`
}

// variable is one row of the vars command output.
type variable struct {
	Name    string `json:"name"    yaml:"name"`
	Default string `json:"default" yaml:"default"`
}

// Run executes the vars command.
func (v *Vars) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	b, err := bench.Load(ctx, v.File)
	if err != nil {
		return err
	}

	vars, err := newChecker().Variables(ctx, b)
	if err != nil {
		return lang.WrapError(err).With(slog.String("file", v.File))
	}

	rows := make([]variable, 0, vars.Len())
	for name, def := range vars.All() {
		rows = append(rows, variable{Name: name, Default: def})
	}

	w := outputFrom(ctx)

	switch v.Output {
	case outputYAML:
		return writeYAML(w, rows)

	case outputJSON:
		return writeJSON(w, rows)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Default"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)

	for _, row := range rows {
		table.Append([]string{row.Name, row.Default})
	}

	table.Render()

	return nil
}

func writeYAML(w io.Writer, v any) error {
	data, err := yaml.MarshalWithOptions(v, yaml.IndentSequence(true))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	return nil
}
