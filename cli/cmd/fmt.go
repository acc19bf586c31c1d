package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/lang"
	"github.com/ardnew/benchdl/log"
)

// Fmt parses a script and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as benchDL source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
}

// ScriptInput is the input shared by the fmt subcommands. The file may be a
// bench record, whose script_body is formatted, or a bare script.
type ScriptInput struct {
	Source string `arg:"" default:"-" help:"Bench file, script, or '-' for stdin." name:"source"`
}

// parse loads the source and parses its script.
func (s ScriptInput) parse(ctx context.Context, format string) (*bench.Bench, []*lang.Statement, error) {
	b, err := bench.Load(ctx, s.Source)
	if err != nil {
		return nil, nil, err
	}

	parser := lang.NewParser(lang.WithLogger(log.Default()))

	script, err := parser.Parse(ctx, b.ScriptBody)
	if err != nil {
		return nil, nil, lang.WrapError(err).
			With(slog.String("format", format), slog.String("source", s.Source))
	}

	return b, script, nil
}

// Native formats input as benchDL source.
type Native struct {
	ScriptInput `embed:""`

	Indent int `default:"4" help:"Indent width for nested blocks." short:"i"`
}

// Run executes the fmt native command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	b, script, err := f.parse(ctx, "native")
	if err != nil {
		return err
	}

	w := outputFrom(ctx)

	if b.IsBenchDL() {
		if _, err := io.WriteString(w, bench.Header+"\n"); err != nil {
			return err
		}
	}

	return lang.Format(ctx, w, script, f.Indent)
}

// JSON formats the syntax tree as JSON.
type JSON struct {
	ScriptInput `embed:""`

	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)." short:"i"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, script, err := j.parse(ctx, "json")
	if err != nil {
		return err
	}

	return lang.FormatJSON(ctx, outputFrom(ctx), script, j.Indent)
}

// YAML formats the syntax tree as YAML.
type YAML struct {
	ScriptInput `embed:""`

	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)." short:"i"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, script, err := y.parse(ctx, "yaml")
	if err != nil {
		return err
	}

	return lang.FormatYAML(ctx, outputFrom(ctx), script, y.Indent)
}
