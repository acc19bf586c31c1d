package lang

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type varPair struct{ Name, Value string }

func collect(v *Vars) []varPair {
	var out []varPair
	for name, value := range v.All() {
		out = append(out, varPair{name, value})
	}

	return out
}

func TestExtractVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []varPair
	}{
		{
			name:  "simplest example",
			input: simplestExample,
			want:  []varPair{{"loop_rate", ""}},
		},
		{
			name:  "var with default",
			input: `print(var("greeting", "hello"))`,
			want:  []varPair{{"greeting", "hello"}},
		},
		{
			name:  "numvar in unit number",
			input: `loop(rate = numvar("r", 10) rps)`,
			want:  []varPair{{"r", "10"}},
		},
		{
			name:  "var in list",
			input: `f([1, var("a"), [var("b", 2)]])`,
			want:  []varPair{{"a", ""}, {"b", "2"}},
		},
		{
			name:  "statement level var",
			input: "var(\"top\", 1)\n",
			want:  []varPair{{"top", "1"}},
		},
		{
			name:  "quoted atom names",
			input: `f(var('host', 'localhost'))`,
			want:  []varPair{{"host", "localhost"}},
		},
		{
			name:  "defaults",
			input: `defaults(a = 1, "b" = "two")`,
			want:  []varPair{{"a", "1"}, {"b", "two"}},
		},
		{
			name:  "defaults with positional args contribute nothing",
			input: `defaults(a, b)`,
			want:  nil,
		},
		{
			name: "nested body",
			input: `pool(size = 1):
    loop(time = 1 min):
        print(var("deep"))
`,
			want: []varPair{{"deep", ""}},
		},
		{
			name:  "comparison operands are not walked",
			input: `f("a" == "b")`,
			want:  nil,
		},
		{
			name:  "map keys are not walked",
			input: `f(var("k") = 1)`,
			want:  nil,
		},
		{
			name:  "nothing",
			input: `print("FOO")`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(ExtractVariables(mustParse(t, tt.input)))

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("variables mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractVariables_Shadowing(t *testing.T) {
	input := `loop(iterator = "i", time = 1 min):
    print(var('i', 1))
    print(var("j", 2))
print(var("i", 3))
`

	vars := ExtractVariables(mustParse(t, input))

	// Only the use outside the loop is reported.
	if got, ok := vars.Get("i"); !ok || got != "3" {
		t.Errorf("expected i = 3 from outside the loop, got %q (present %v)", got, ok)
	}

	if got, ok := vars.Get("j"); !ok || got != "2" {
		t.Errorf("expected j = 2, got %q (present %v)", got, ok)
	}
}

func TestExtractVariables_ShadowedOnlyInside(t *testing.T) {
	input := `loop(iterator = "i"):
    print(var("i"))
    print(var("other"))
`

	vars := ExtractVariables(mustParse(t, input))

	if vars.Has("i") {
		t.Error("iterator must not be reported inside its loop")
	}

	if !vars.Has("other") {
		t.Error("expected other to be reported")
	}
}

func TestExtractVariables_LoopWithoutIterator(t *testing.T) {
	for _, input := range []string{
		"loop:\n    print(var(\"x\"))\n",
		"loop():\n    print(var(\"x\"))\n",
		"loop(time = 1 min):\n    print(var(\"x\"))\n",
	} {
		vars := ExtractVariables(mustParse(t, input))
		if !vars.Has("x") {
			t.Errorf("expected x to be reported for %q", input)
		}
	}
}

func TestExtractVariables_SiblingLoopsDoNotLeak(t *testing.T) {
	input := `loop(iterator = "i"):
    print(var("x"))
loop(time = 1 min):
    print(var("i"))
`

	vars := ExtractVariables(mustParse(t, input))
	if !vars.Has("i") {
		t.Error("iterator binding leaked into a sibling loop")
	}
}

func TestExtractVariables_MergePolicy(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "later non-empty overrides earlier empty",
			input: "print(var(\"x\"))\nprint(var(\"x\", 5))\n",
			want:  "5",
		},
		{
			name:  "earlier non-empty kept over later empty",
			input: "print(var(\"x\", 5))\nprint(var(\"x\"))\n",
			want:  "5",
		},
		{
			name:  "later non-empty overrides earlier non-empty",
			input: "print(var(\"x\", 5))\nprint(var(\"x\", 7))\n",
			want:  "7",
		},
		{
			name:  "defaults override empty",
			input: "print(var(\"x\"))\ndefaults(x = 9)\n",
			want:  "9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := ExtractVariables(mustParse(t, tt.input))

			got, ok := vars.Get("x")
			if !ok || got != tt.want {
				t.Errorf("expected x = %q, got %q (present %v)", tt.want, got, ok)
			}

			if vars.Len() != 1 {
				t.Errorf("expected 1 variable, got %d", vars.Len())
			}
		})
	}
}

func TestVars_Order(t *testing.T) {
	v := NewVars()
	v.Set("b", "")
	v.Set("a", "1")
	v.Set("b", "2")

	if diff := cmp.Diff([]string{"b", "a"}, v.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]string{"a": "1", "b": "2"}, v.Map()); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}
}
