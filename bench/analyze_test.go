package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/benchdl/lang"
)

const workersScript = Header + `
pool(size = var("workers", 3),
     worker_type = dummy_worker):
    loop(time = 1 min, rate = numvar("rate", 10) rps):
        print("x")
`

func TestAnalyze_Default(t *testing.T) {
	b := Default()

	r := Analyze(context.Background(), b)

	assert.Equal(t, []*EnvVar{{Name: "loop_rate", Value: "1", ID: 1}}, r.Env)
	assert.Empty(t, r.Extra)
	assert.NotNil(t, r.Extra)
}

func TestAnalyze_Reconcile(t *testing.T) {
	b := &Bench{
		ScriptBody: workersScript,
		Env: []*EnvVar{
			{Name: "rate", Value: "5", ID: 4, Unused: true},
			{Name: "old", Value: "1", ID: 2},
		},
	}

	r := Analyze(context.Background(), b)

	assert.Equal(t, []*EnvVar{
		{Name: "rate", Value: "5", ID: 5},
		{Name: "old", Value: "1", ID: 6, Unused: true},
	}, r.Env)
	assert.Equal(t, []*EnvVar{{Name: "workers", Value: "3", ID: 7}}, r.Extra)

	assert.Same(t, b.Env[0], r.Env[0], "env entries are updated in place")

	assert.Equal(t, []string{"rate", "old", "workers"}, names(r.Merged()))
}

func TestAnalyze_IDStability(t *testing.T) {
	b := &Bench{
		ScriptBody: workersScript,
		Env: []*EnvVar{
			{Name: "workers", Value: "3", ID: 1},
			{Name: "rate", Value: "5", ID: 2},
			{Name: "unrelated", Value: "x", ID: 3},
		},
	}

	first := Analyze(context.Background(), b)
	require.Equal(t, 4, first.Env[2].ID)
	require.True(t, first.Env[2].Unused)

	second := Analyze(context.Background(), b)

	assert.Equal(t, []*EnvVar{
		{Name: "workers", Value: "3", ID: 1},
		{Name: "rate", Value: "5", ID: 2},
		{Name: "unrelated", Value: "x", ID: 4, Unused: true},
	}, second.Env, "a second run with no edits changes nothing")
	assert.Empty(t, second.Extra)
}

func TestAnalyze_FreshIDsAreUnique(t *testing.T) {
	b := &Bench{
		ScriptBody: workersScript,
		Env:        []*EnvVar{{Name: "a", ID: 10}, {Name: "b", ID: 3}},
	}

	r := Analyze(context.Background(), b)

	seen := map[int]bool{}
	for _, ev := range r.Merged() {
		assert.False(t, seen[ev.ID], "duplicate id %d", ev.ID)
		seen[ev.ID] = true
	}

	assert.Equal(t, 14, b.MaxID()+len(r.Extra))
}

func TestAnalyze_ParseFailure(t *testing.T) {
	env := []*EnvVar{{Name: "a", Value: "1", ID: 1, Unused: true}}
	b := &Bench{ScriptBody: "#!benchDL\npool((", Env: env}

	r := Analyze(context.Background(), b)

	assert.Equal(t, []*EnvVar{{Name: "a", Value: "1", ID: 1, Unused: true}}, r.Env)
	assert.Empty(t, r.Extra)
}

func TestChecker_Variables(t *testing.T) {
	c := NewChecker(WithParser(lang.NewParser(lang.WithCache(4))))

	vars, err := c.Variables(context.Background(), &Bench{ScriptBody: workersScript})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"workers": "3", "rate": "10"}, vars.Map())

	_, err = c.Variables(context.Background(), &Bench{ScriptBody: "#!benchDL\npool(("})
	assert.Error(t, err)
}

func TestSuggest(t *testing.T) {
	r := AnalysisResult{
		Env: []*EnvVar{
			{Name: "loop_rat", ID: 1, Unused: true},
			{Name: "size", ID: 2},
		},
		Extra: []*EnvVar{
			{Name: "loop_rate", ID: 3},
			{Name: "zzz", ID: 4},
		},
	}

	assert.Equal(t, []Suggestion{{Used: "loop_rate", Declared: "loop_rat"}}, Suggest(r))
	assert.Empty(t, Suggest(AnalysisResult{}))
}

func names(env []*EnvVar) []string {
	out := make([]string, len(env))
	for i, ev := range env {
		out[i] = ev.Name
	}

	return out
}
