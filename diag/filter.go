package diag

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterEnv is the environment a filter expression is evaluated against.
type filterEnv struct {
	Severity string `expr:"severity"`
	Text     string `expr:"text"`
	Line     int    `expr:"line"`
	Column   int    `expr:"column"`
	Located  bool   `expr:"located"`
}

func envOf(d Diagnostic) filterEnv {
	env := filterEnv{Severity: d.Severity.String(), Text: d.Text}

	if d.Location != nil {
		env.Line = d.Location.Line
		env.Column = d.Location.Column
		env.Located = true
	}

	return env
}

// Filter selects diagnostics with a boolean expr-lang expression over the
// variables severity, text, line, column and located, e.g.
//
//	severity == "danger" || text contains "make_install"
//
// A zero Filter selects everything.
type Filter struct {
	source  string
	program *vm.Program
}

// NewFilter compiles expression. An empty expression selects everything.
func NewFilter(expression string) (Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return Filter{}, nil
	}

	program, err := expr.Compile(expression, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return Filter{}, fmt.Errorf("invalid filter %q: %w", expression, err)
	}

	return Filter{source: expression, program: program}, nil
}

// String returns the source expression.
func (f Filter) String() string { return f.source }

// Match reports whether d is selected.
func (f Filter) Match(d Diagnostic) (bool, error) {
	if f.program == nil {
		return true, nil
	}

	out, err := vm.Run(f.program, envOf(d))
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Apply returns the diagnostics in ds selected by f, in order.
func (f Filter) Apply(ds []Diagnostic) ([]Diagnostic, error) {
	if f.program == nil {
		return ds, nil
	}

	out := make([]Diagnostic, 0, len(ds))

	for _, d := range ds {
		ok, err := f.Match(d)
		if err != nil {
			return nil, err
		}

		if ok {
			out = append(out, d)
		}
	}

	return out, nil
}
