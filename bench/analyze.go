package bench

import (
	"context"
	"log/slog"

	"github.com/ardnew/benchdl/lang"
	"github.com/ardnew/benchdl/log"
)

// Checker runs the environment reconciler and the script validator. It holds
// no per-bench state and is safe for concurrent use on distinct benches.
type Checker struct {
	parser *lang.Parser
	logger log.Logger
}

// Option configures a [Checker].
type Option func(*Checker)

// WithLogger sets the logger for trace events. The zero logger discards.
func WithLogger(logger log.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithParser replaces the default parser, e.g. with one that caches.
func WithParser(p *lang.Parser) Option {
	return func(c *Checker) {
		c.parser = p
	}
}

// NewChecker returns a Checker configured by opts.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{}

	for _, opt := range opts {
		opt(c)
	}

	if c.parser == nil {
		c.parser = lang.NewParser(lang.WithLogger(c.logger))
	}

	return c
}

var defaultChecker = NewChecker()

// AnalysisResult is the reconciled env of a bench plus the variables the
// script uses but the env does not declare.
type AnalysisResult struct {
	Env   []*EnvVar `json:"env"   yaml:"env"`
	Extra []*EnvVar `json:"extra" yaml:"extra"`
}

// Merged returns Env followed by Extra in a new slice.
func (r AnalysisResult) Merged() []*EnvVar {
	out := make([]*EnvVar, 0, len(r.Env)+len(r.Extra))
	out = append(out, r.Env...)

	return append(out, r.Extra...)
}

// Analyze reconciles b.Env with the variables b's script uses.
func Analyze(ctx context.Context, b *Bench) AnalysisResult {
	return defaultChecker.Analyze(ctx, b)
}

// Analyze reconciles b.Env with the variables b's script uses.
//
// Each env entry whose used status disagrees with its Unused flag has the
// flag flipped and receives a fresh ID. Variables used by the script but
// missing from the env are returned in Extra with their default values and
// fresh IDs. Fresh IDs count up from the largest ID in b.Env, so they never
// collide.
//
// If the script does not parse, the env is returned unchanged and Extra is
// empty.
func (c *Checker) Analyze(ctx context.Context, b *Bench) AnalysisResult {
	result := AnalysisResult{Env: b.Env, Extra: []*EnvVar{}}

	script, err := c.parser.Parse(ctx, b.ScriptBody)
	if err != nil {
		c.logger.TraceContext(ctx, "analyze skipped",
			slog.String("bench", b.Name),
			slog.String("error", err.Error()))

		return result
	}

	vars := lang.ExtractVariables(script)
	maxID := b.MaxID()
	declared := make(map[string]bool, len(b.Env))

	for _, ev := range b.Env {
		if ev == nil {
			continue
		}

		declared[ev.Name] = true

		if vars.Has(ev.Name) != ev.Unused {
			continue
		}

		ev.Unused = !ev.Unused
		maxID++
		ev.ID = maxID

		c.logger.TraceContext(ctx, "env status changed",
			slog.String("name", ev.Name),
			slog.Bool("unused", ev.Unused),
			slog.Int("id", ev.ID))
	}

	for name, value := range vars.All() {
		if declared[name] {
			continue
		}

		maxID++
		result.Extra = append(result.Extra,
			&EnvVar{Name: name, Value: value, ID: maxID})
	}

	c.logger.TraceContext(ctx, "analyze complete",
		slog.String("bench", b.Name),
		slog.Int("var_count", vars.Len()),
		slog.Int("extra_count", len(result.Extra)))

	return result
}

// Variables returns the variables b's script uses with their defaults.
func (c *Checker) Variables(ctx context.Context, b *Bench) (*lang.Vars, error) {
	script, err := c.parser.Parse(ctx, b.ScriptBody)
	if err != nil {
		return nil, err
	}

	return lang.ExtractVariables(script), nil
}
