package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_EnvMap(t *testing.T) {
	data := []byte(`
name: map env
script_name: script.bdl
nodes: 2
script_body: |
  #!benchDL
  print(var("b"))
env:
  b: 2
  a: one
  c: true
`)

	b, err := Decode(context.Background(), "bench.yaml", data)
	require.NoError(t, err)

	assert.Equal(t, "map env", b.Name)
	assert.Equal(t, "2", b.Nodes)
	assert.Equal(t, "#!benchDL\nprint(var(\"b\"))\n", b.ScriptBody)
	assert.Equal(t, []*EnvVar{
		{Name: "a", Value: "one", ID: 1},
		{Name: "b", Value: "2", ID: 2},
		{Name: "c", Value: "true", ID: 3},
	}, b.Env)
}

func TestDecode_EnvList(t *testing.T) {
	data := []byte(`{
		"name": "list env",
		"script_body": "#!benchDL\n",
		"env": [
			{"name": "rate", "value": 5, "id": 3},
			{"name": "old", "value": "x", "id": 9, "unused": true}
		]
	}`)

	b, err := Decode(context.Background(), "bench.json", data)
	require.NoError(t, err)

	assert.Equal(t, []*EnvVar{
		{Name: "rate", Value: "5", ID: 3},
		{Name: "old", Value: "x", ID: 9, Unused: true},
	}, b.Env)
}

func TestDecode_Schema(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "missing script", data: "name: x\n"},
		{name: "env entry without name", data: "script_body: ''\nenv:\n  - value: 1\n"},
		{name: "unknown env field", data: "script_body: ''\nenv:\n  - name: a\n    color: red\n"},
		{name: "not an object", data: "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(context.Background(), "bench.yaml", []byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSchema), err.Error())
		})
	}
}

func TestDecode_Script(t *testing.T) {
	b, err := Decode(context.Background(), "dir/simple.bdl", []byte("print(1)\n"))
	require.NoError(t, err)

	assert.Equal(t, "simple", b.Name)
	assert.Equal(t, "simple.bdl", b.ScriptName)
	assert.Equal(t, "print(1)\n", b.ScriptBody)
	assert.Empty(t, b.Env)
	assert.True(t, b.IsScriptFile())

	b, err = Decode(context.Background(), "load.txt", []byte(Header+"\nprint(1)\n"))
	require.NoError(t, err)
	assert.True(t, b.IsBenchDL())
	assert.True(t, b.IsScriptFile())

	b, err = Decode(context.Background(), "bench.yaml", []byte("script_body: print(1)\n"))
	require.NoError(t, err)
	assert.False(t, b.IsScriptFile())
}

func TestSave_Script(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "load.txt")
	script := Header + "\nprint(var(\"rate\", 1))\n"

	b, err := Decode(context.Background(), path, []byte(script))
	require.NoError(t, err)

	out := b.WithExtra(Analyze(context.Background(), b))
	require.Len(t, out.Env, 1)
	require.NoError(t, Save(path, out))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, script, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestIsScript(t *testing.T) {
	assert.True(t, IsScript("a.bdl", nil))
	assert.True(t, IsScript("a.ERL", nil))
	assert.True(t, IsScript("a.yaml", []byte("#!benchDL\n")))
	assert.False(t, IsScript("a.yaml", []byte("name: x\n")))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"bench.yaml", "bench.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			want := Default()

			require.NoError(t, Save(path, want))

			got, err := Load(context.Background(), path)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)

			for _, e := range entries {
				assert.NotContains(t, e.Name(), ".bench", "temporary file left behind")
			}
		})
	}
}

func TestEncode_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, &Bench{Name: "x", Env: []*EnvVar{{Name: "a", Value: "1", ID: 1}}}, FormatJSON))

	assert.JSONEq(t, `{
		"name": "x",
		"script_name": "",
		"script_body": "",
		"env": [{"name": "a", "value": "1", "id": 1}]
	}`, buf.String())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLoadBench))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestWithExtra(t *testing.T) {
	b := &Bench{Name: "x", Env: []*EnvVar{{Name: "a", ID: 1}}}
	out := b.WithExtra(AnalysisResult{Env: b.Env, Extra: []*EnvVar{{Name: "b", ID: 2}}})

	assert.Equal(t, []string{"a", "b"}, names(out.Env))
	assert.Len(t, b.Env, 1)
	assert.Equal(t, FormatJSON, FormatOf("x.JSON"))
	assert.Equal(t, FormatYAML, FormatOf("x.yml"))
}
