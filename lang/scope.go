package lang

import (
	"iter"
	"maps"
)

// Statement names with meaning to the scope analyzer.
const (
	stmtVar      = "var"
	stmtNumVar   = "numvar"
	stmtDefaults = "defaults"
	stmtLoop     = "loop"

	// IteratorKey names the loop argument that binds a local variable.
	IteratorKey = "iterator"
)

// Vars maps variable names to default values, remembering the order in which
// names were first seen. A variable declared without a default maps to "".
type Vars struct {
	names  []string
	values map[string]string
}

// NewVars returns an empty Vars.
func NewVars() *Vars {
	return &Vars{values: make(map[string]string)}
}

// Len returns the number of variables.
func (v *Vars) Len() int { return len(v.names) }

// Has reports whether name is present.
func (v *Vars) Has(name string) bool {
	_, ok := v.values[name]

	return ok
}

// Get returns the default value of name.
func (v *Vars) Get(name string) (string, bool) {
	s, ok := v.values[name]

	return s, ok
}

// Set assigns value to name, appending name if it is new.
func (v *Vars) Set(name, value string) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}

	v.values[name] = value
}

// Names returns the variable names in first-seen order.
func (v *Vars) Names() []string {
	return append([]string(nil), v.names...)
}

// All returns an iterator over name, default pairs in first-seen order.
func (v *Vars) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, name := range v.names {
			if !yield(name, v.values[name]) {
				return
			}
		}
	}
}

// Map returns the variables as a plain map.
func (v *Vars) Map() map[string]string {
	return maps.Clone(v.values)
}

// Merge folds other into v: an incoming value replaces the current one when
// it is non-empty or when v does not have the name yet. An existing
// non-empty default is never replaced by an empty one.
func (v *Vars) Merge(other *Vars) *Vars {
	for name, value := range other.All() {
		if value != "" || !v.Has(name) {
			v.Set(name, value)
		}
	}

	return v
}

// shadowSet holds the names bound by enclosing loops. It is copied on
// extension so sibling subtrees never see each other's bindings.
type shadowSet map[string]struct{}

func (s shadowSet) has(name string) bool {
	_, ok := s[name]

	return ok
}

func (s shadowSet) with(names ...string) shadowSet {
	if len(names) == 0 {
		return s
	}

	next := make(shadowSet, len(s)+len(names))
	for name := range s {
		next[name] = struct{}{}
	}

	for _, name := range names {
		next[name] = struct{}{}
	}

	return next
}

// ExtractVariables returns every variable a script declares with var or
// numvar and every default assigned in a defaults statement. Names bound as
// a loop iterator are not variables inside that loop's body.
func ExtractVariables(script []*Statement) *Vars {
	return varsOfStatements(script, shadowSet{})
}

func varsOfStatements(list []*Statement, shadowed shadowSet) *Vars {
	acc := NewVars()

	for _, st := range list {
		acc.Merge(varsOfStatement(st, shadowed))
	}

	return acc
}

func varsOfStatement(st *Statement, shadowed shadowSet) *Vars {
	switch st.Name {
	case stmtVar, stmtNumVar:
		if st.Args.Kind == ArgsPositional {
			return declaredVar(st.Args, shadowed)
		}

	case stmtDefaults:
		if st.Args.Kind == ArgsMap {
			return declaredDefaults(st.Args)
		}

	case stmtLoop:
		shadowed = shadowed.with(iterators(st.Args)...)
	}

	acc := varsOfArgs(st.Args, shadowed)

	return acc.Merge(varsOfStatements(st.Body, shadowed))
}

// declaredVar handles var(name[, default]).
func declaredVar(args Args, shadowed shadowSet) *Vars {
	vars := NewVars()

	name := Text(args.Positional(0))
	if shadowed.has(name) {
		return vars
	}

	vars.Set(name, Text(args.Positional(1)))

	return vars
}

// declaredDefaults handles defaults(name = value, ...).
func declaredDefaults(args Args) *Vars {
	vars := NewVars()

	for _, p := range args.Pairs {
		vars.Set(Text(p.Key), Text(p.Value))
	}

	return vars
}

// iterators returns the names bound by a loop's iterator arguments.
func iterators(args Args) []string {
	var names []string

	for _, p := range args.Pairs {
		if Text(p.Key) == IteratorKey {
			names = append(names, Text(p.Value))
		}
	}

	return names
}

func varsOfArgs(args Args, shadowed shadowSet) *Vars {
	acc := NewVars()

	switch args.Kind {
	case ArgsPositional:
		for _, t := range args.Terms {
			acc.Merge(varsOfTerm(t, shadowed))
		}

	case ArgsMap:
		// Keys name arguments; only values can refer to variables.
		for _, p := range args.Pairs {
			acc.Merge(varsOfTerm(p.Value, shadowed))
		}

	case ArgsNone:
	}

	return acc
}

func varsOfTerm(t Term, shadowed shadowSet) *Vars {
	switch t := t.(type) {
	case *Statement:
		return varsOfStatement(t, shadowed)

	case *UnitNumber:
		return varsOfTerm(t.Value, shadowed)

	case *List:
		acc := NewVars()

		for _, item := range t.Items {
			acc.Merge(varsOfTerm(item, shadowed))
		}

		return acc

	case *Atom, *Number, *String, *Comparison, nil:
		return NewVars()

	default:
		panic("lang: unhandled term type")
	}
}
