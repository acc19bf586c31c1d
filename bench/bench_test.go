package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFromMap(t *testing.T) {
	env := EnvFromMap(map[string]string{"b": "2", "a": "1", "c": ""})

	require.Len(t, env, 3)
	assert.Equal(t, []*EnvVar{
		{Name: "a", Value: "1", ID: 1},
		{Name: "b", Value: "2", ID: 2},
		{Name: "c", Value: "", ID: 3},
	}, env)

	assert.Equal(t, map[string]string{"a": "1", "b": "2", "c": ""}, EnvToMap(env))
}

func TestBench_IDs(t *testing.T) {
	b := &Bench{}
	assert.Equal(t, 0, b.MaxID())
	assert.Equal(t, 1, b.NextID())

	b.Env = []*EnvVar{{Name: "a", ID: 7}, nil, {Name: "b", ID: 3}}
	assert.Equal(t, 7, b.MaxID())
	assert.Equal(t, 8, b.NextID())

	ev, ok := b.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, 3, ev.ID)

	_, ok = b.Lookup("missing")
	assert.False(t, ok)
}

func TestDefault(t *testing.T) {
	b := Default()

	assert.True(t, b.IsBenchDL())
	assert.Equal(t, "My benchmark", b.Name)
	assert.Equal(t, "generic.erl", b.ScriptName)
	assert.Equal(t, "1", b.Nodes)
	assert.Equal(t, []*EnvVar{{Name: "loop_rate", Value: "1", ID: 1}}, b.Env)

	assert.NotSame(t, Default().Env[0], b.Env[0], "each call returns a fresh record")
}
