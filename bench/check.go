package bench

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/benchdl/diag"
	"github.com/ardnew/benchdl/lang"
)

// Worker types that need no installation step.
const dummyWorker = "dummy_worker"

// CheckEnv warns once for every env name declared more than once.
func CheckEnv(b *Bench) []diag.Diagnostic { return defaultChecker.CheckEnv(b) }

// CheckScript validates b's script.
func CheckScript(ctx context.Context, b *Bench) []diag.Diagnostic {
	return defaultChecker.CheckScript(ctx, b)
}

// GetErrors returns the diagnostics of [CheckEnv] followed by those of
// [CheckScript].
func GetErrors(ctx context.Context, b *Bench) []diag.Diagnostic {
	return defaultChecker.GetErrors(ctx, b)
}

// CheckEnv warns once for every env name declared more than once, in order
// of first occurrence.
func (c *Checker) CheckEnv(b *Bench) []diag.Diagnostic {
	var (
		order  []string
		counts = make(map[string]int, len(b.Env))
	)

	for _, ev := range b.Env {
		if ev == nil {
			continue
		}

		if counts[ev.Name] == 0 {
			order = append(order, ev.Name)
		}

		counts[ev.Name]++
	}

	out := []diag.Diagnostic{}

	for _, name := range order {
		if counts[name] > 1 {
			out = append(out,
				diag.Warningf("Duplicated environment variable: %s", name))
		}
	}

	return out
}

// CheckScript validates b's script. Scripts without [Header] are not
// benchDL and pass unchecked. A script that fails to parse yields a single
// danger diagnostic. Otherwise a warning is raised when pools use worker
// types other than the dummy worker and no top-level make_install statement
// is present.
func (c *Checker) CheckScript(ctx context.Context, b *Bench) []diag.Diagnostic {
	if !b.IsBenchDL() {
		return []diag.Diagnostic{}
	}

	script, err := c.parser.Parse(ctx, b.ScriptBody)
	if err != nil {
		c.logger.TraceContext(ctx, "check parse failed",
			slog.String("bench", b.Name),
			slog.String("error", err.Error()))

		return []diag.Diagnostic{parseDiagnostic(err)}
	}

	if slices.ContainsFunc(script, func(st *lang.Statement) bool {
		return st.Name == "make_install"
	}) {
		return []diag.Diagnostic{}
	}

	workers := workerTypes(script)
	if len(workers) == 0 || slices.Equal(workers, []string{dummyWorker}) {
		return []diag.Diagnostic{}
	}

	return []diag.Diagnostic{
		diag.Warningf("Probably missing make_install for [%s]",
			strings.Join(workers, ",")),
	}
}

// GetErrors returns the diagnostics of CheckEnv followed by those of
// CheckScript.
func (c *Checker) GetErrors(ctx context.Context, b *Bench) []diag.Diagnostic {
	return append(c.CheckEnv(b), c.CheckScript(ctx, b)...)
}

func parseDiagnostic(err error) diag.Diagnostic {
	var se *lang.SyntaxError
	if errors.As(err, &se) {
		return diag.Dangerf("Parse error: %s Line:%d Column:%d",
			se.Message, se.Line, se.Column).At(se.Line, se.Column)
	}

	var ie *lang.IndentError
	if errors.As(err, &ie) {
		return diag.Dangerf("Parse error: %v Line:%d Column:1", err, ie.Line).
			At(ie.Line, 1)
	}

	return diag.Dangerf("Parse error: %v", err)
}

// workerTypes returns the distinct worker_type values of the top-level pool
// statements in order of first use.
func workerTypes(script []*lang.Statement) []string {
	var workers []string

	for _, st := range script {
		if st.Name != "pool" || st.Args.Kind != lang.ArgsMap {
			continue
		}

		for _, p := range st.Args.Pairs {
			if lang.Text(p.Key) != "worker_type" {
				continue
			}

			if w := lang.Text(p.Value); !slices.Contains(workers, w) {
				workers = append(workers, w)
			}
		}
	}

	return workers
}
