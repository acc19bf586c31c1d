package bench

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/benchdl/diag"
)

func TestCheckEnv(t *testing.T) {
	tests := []struct {
		name string
		env  []string
		want []diag.Diagnostic
	}{
		{name: "empty", env: nil, want: []diag.Diagnostic{}},
		{name: "distinct", env: []string{"a", "b"}, want: []diag.Diagnostic{}},
		{
			name: "first occurrence order",
			env:  []string{"a", "b", "a", "c", "b", "a"},
			want: []diag.Diagnostic{
				diag.Warningf("Duplicated environment variable: a"),
				diag.Warningf("Duplicated environment variable: b"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bench{}
			for i, name := range tt.env {
				b.Env = append(b.Env, &EnvVar{Name: name, ID: i + 1})
			}

			assert.Equal(t, tt.want, CheckEnv(b))
		})
	}
}

func TestCheckScript(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []diag.Diagnostic
	}{
		{
			name:   "not benchDL",
			script: "-module(generic).\n",
			want:   []diag.Diagnostic{},
		},
		{
			name:   "default template",
			script: Default().ScriptBody,
			want:   []diag.Diagnostic{},
		},
		{
			name: "custom worker",
			script: Header + `
pool(size = 1, worker_type = custom_worker):
    print("a")
pool(size = 2, worker_type = other_worker)
pool(size = 3, worker_type = custom_worker)
`,
			want: []diag.Diagnostic{
				diag.Warningf("Probably missing make_install for [custom_worker,other_worker]"),
			},
		},
		{
			name: "dummy and custom",
			script: Header + `
pool(size = 1, worker_type = dummy_worker)
pool(size = 1, worker_type = custom_worker)
`,
			want: []diag.Diagnostic{
				diag.Warningf("Probably missing make_install for [dummy_worker,custom_worker]"),
			},
		},
		{
			name: "installed",
			script: Header + `
make_install(git = "https://example.com/worker.git")
pool(size = 1, worker_type = custom_worker):
    print("a")
`,
			want: []diag.Diagnostic{},
		},
		{
			name: "nested pools are not inspected",
			script: Header + `
setup():
    pool(size = 1, worker_type = custom_worker)
`,
			want: []diag.Diagnostic{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckScript(context.Background(), &Bench{ScriptBody: tt.script})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckScript_SyntaxError(t *testing.T) {
	got := CheckScript(context.Background(), &Bench{ScriptBody: "#!benchDL\npool(("})

	require.Len(t, got, 1)
	assert.Equal(t, diag.Danger, got[0].Severity)
	assert.True(t, strings.HasPrefix(got[0].Text, "Parse error: "), got[0].Text)
	assert.True(t, strings.HasSuffix(got[0].Text, " Line:2 Column:6"), got[0].Text)
	require.NotNil(t, got[0].Location)
	assert.Equal(t, diag.Location{Line: 2, Column: 6}, *got[0].Location)
}

func TestCheckScript_IndentError(t *testing.T) {
	script := Header + "\na():\n    b()\n  c()\n"

	got := CheckScript(context.Background(), &Bench{ScriptBody: script})

	require.Len(t, got, 1)
	assert.Equal(t, diag.Danger, got[0].Severity)
	assert.True(t, strings.HasPrefix(got[0].Text, "Parse error: inconsistent indentation"), got[0].Text)
	assert.True(t, strings.HasSuffix(got[0].Text, " Line:4 Column:1"), got[0].Text)
	assert.Equal(t, &diag.Location{Line: 4, Column: 1}, got[0].Location)
}

func TestCheckScript_RenderedSnippet(t *testing.T) {
	b := &Bench{ScriptBody: Header + "\npool(("}

	var buf bytes.Buffer
	require.NoError(t, diag.Render(&buf, CheckScript(context.Background(), b),
		diag.RenderOptions{File: "bench.yaml", Source: b.ScriptBody}))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "bench.yaml:2:6: danger: Parse error: "), lines[0])
	assert.Equal(t, "    pool((", lines[1])
	assert.Equal(t, "         ^", lines[2])
	assert.Empty(t, lines[3])
}

func TestGetErrors(t *testing.T) {
	b := &Bench{
		ScriptBody: Header + "\npool(size = 1, worker_type = http_worker)\n",
		Env:        []*EnvVar{{Name: "x", ID: 1}, {Name: "x", ID: 2}},
	}

	assert.Equal(t, []diag.Diagnostic{
		diag.Warningf("Duplicated environment variable: x"),
		diag.Warningf("Probably missing make_install for [http_worker]"),
	}, GetErrors(context.Background(), b))

	b.ScriptBody = "#!benchDL\npool(("
	got := GetErrors(context.Background(), b)
	require.Len(t, got, 2)
	assert.Equal(t, diag.Danger, got[1].Severity)
}
