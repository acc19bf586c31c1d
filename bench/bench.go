package bench

import (
	"slices"
	"strings"
)

// Header is the first line of every benchDL script. Scripts without it are
// treated as opaque (e.g. Erlang) and are not checked.
const Header = "#!benchDL"

// EnvVar is a declared environment variable of a bench. ID changes every
// time the variable's used/unused status changes so that views keyed by ID
// re-render.
type EnvVar struct {
	Name   string `json:"name"             yaml:"name"`
	Value  string `json:"value"            yaml:"value"`
	ID     int    `json:"id"               yaml:"id"`
	Unused bool   `json:"unused,omitempty" yaml:"unused,omitempty"`
}

// Bench is a benchmark record: a script and the environment it runs with.
type Bench struct {
	ID         int       `json:"id,omitempty"    yaml:"id,omitempty"`
	Name       string    `json:"name"            yaml:"name"`
	ScriptName string    `json:"script_name"     yaml:"script_name"`
	ScriptBody string    `json:"script_body"     yaml:"script_body"`
	Nodes      string    `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	Cloud      string    `json:"cloud,omitempty" yaml:"cloud,omitempty"`
	Env        []*EnvVar `json:"env"             yaml:"env"`

	script bool // decoded from a bare script file
}

// IsScriptFile reports whether b was decoded from a bare script rather than
// a bench record. [Save] writes such benches back as plain script text.
func (b *Bench) IsScriptFile() bool { return b.script }

// IsBenchDL reports whether the script starts with [Header].
func (b *Bench) IsBenchDL() bool {
	return strings.HasPrefix(b.ScriptBody, Header)
}

// MaxID returns the largest env ID, or 0 if there is none.
func (b *Bench) MaxID() int {
	id := 0

	for _, ev := range b.Env {
		if ev != nil && ev.ID > id {
			id = ev.ID
		}
	}

	return id
}

// NextID returns an ID not used by any env entry.
func (b *Bench) NextID() int { return b.MaxID() + 1 }

// Lookup returns the first env entry named name.
func (b *Bench) Lookup(name string) (*EnvVar, bool) {
	for _, ev := range b.Env {
		if ev != nil && ev.Name == name {
			return ev, true
		}
	}

	return nil, false
}

// EnvFromMap converts a name to value map, the form the server sends, into
// an env list. Names are sorted and IDs assigned from 1.
func EnvFromMap(m map[string]string) []*EnvVar {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}

	slices.Sort(names)

	env := make([]*EnvVar, len(names))
	for i, name := range names {
		env[i] = &EnvVar{Name: name, Value: m[name], ID: i + 1}
	}

	return env
}

// EnvToMap is the inverse of [EnvFromMap]. Later duplicates win.
func EnvToMap(env []*EnvVar) map[string]string {
	m := make(map[string]string, len(env))

	for _, ev := range env {
		if ev != nil {
			m[ev.Name] = ev.Value
		}
	}

	return m
}

const defaultScript = Header + `
# the simplest example
pool(size = 3, # three execution "threads"
     worker_type = dummy_worker):
        loop(time = 5 min, # total loop time
             rate = numvar("loop_rate") rps): # one rps for every worker, 3 rps totally
            print("FOO") # this operation prints "FOO" to console
`

// Default returns the template offered for a new bench.
func Default() *Bench {
	return &Bench{
		Name:       "My benchmark",
		ScriptName: "generic.erl",
		ScriptBody: defaultScript,
		Nodes:      "1",
		Env:        []*EnvVar{{Name: "loop_rate", Value: "1", ID: 1}},
	}
}
