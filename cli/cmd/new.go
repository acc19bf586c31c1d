package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/benchdl/bench"
	"github.com/ardnew/benchdl/log"
)

// New writes the default bench template.
type New struct {
	Name   string `arg:"" help:"Bench name." optional:""`
	Output string `help:"Write to this file instead of stdout; .json selects JSON." short:"o" type:"path"`
	Force  bool   `help:"Overwrite an existing output file." short:"f"`
}

// Run executes the new command.
func (n *New) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	b := bench.Default()
	if n.Name != "" {
		b.Name = n.Name
	}

	if n.Output == "" {
		return bench.Encode(outputFrom(ctx), b, bench.FormatYAML)
	}

	if _, err := os.Stat(n.Output); err == nil && !n.Force {
		return ErrWriteBench.
			With(slog.String("file", n.Output)).
			Wrap(ErrFileExists)
	}

	if err := bench.Save(n.Output, b); err != nil {
		return ErrWriteBench.Wrap(err).With(slog.String("file", n.Output))
	}

	log.DebugContext(ctx, "created bench", slog.String("path", n.Output))

	return nil
}
