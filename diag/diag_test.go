package diag

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_Text(t *testing.T) {
	for _, sev := range []Severity{Warning, Danger} {
		text, err := sev.MarshalText()
		require.NoError(t, err)

		var got Severity
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, sev, got)
	}

	var s Severity
	assert.Error(t, s.UnmarshalText([]byte("fatal")))
}

func TestDiagnostic_JSON(t *testing.T) {
	ds := []Diagnostic{
		Warningf("Duplicated environment variable: %s", "x"),
		Dangerf("Parse error: %s", "boom").At(3, 7),
	}

	data, err := json.Marshal(ds)
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"severity": "warning", "text": "Duplicated environment variable: x"},
		{"severity": "danger", "text": "Parse error: boom", "location": {"line": 3, "column": 7}}
	]`, string(data))
}

func TestDiagnostic_AtCopies(t *testing.T) {
	base := Dangerf("bad")
	located := base.At(1, 2)

	assert.Nil(t, base.Location)
	require.NotNil(t, located.Location)
	assert.Equal(t, Location{Line: 1, Column: 2}, *located.Location)
}

func TestCountWorst(t *testing.T) {
	_, ok := Worst(nil)
	assert.False(t, ok)

	ds := []Diagnostic{Warningf("a"), Warningf("b")}

	sev, ok := Worst(ds)
	assert.True(t, ok)
	assert.Equal(t, Warning, sev)
	assert.Equal(t, 2, Count(ds, Warning))
	assert.Equal(t, 0, Count(ds, Danger))

	ds = append(ds, Dangerf("c"))

	sev, _ = Worst(ds)
	assert.Equal(t, Danger, sev)
}

func TestFilter(t *testing.T) {
	ds := []Diagnostic{
		Warningf("Duplicated environment variable: x"),
		Warningf("Probably missing make_install for [custom_worker]"),
		Dangerf("Parse error: expected identifier").At(2, 5),
	}

	tests := []struct {
		name  string
		where string
		want  []Diagnostic
	}{
		{name: "empty selects all", where: "", want: ds},
		{name: "severity", where: `severity == "danger"`, want: ds[2:]},
		{name: "text", where: `text contains "make_install"`, want: ds[1:2]},
		{name: "location", where: `located && line == 2`, want: ds[2:]},
		{name: "none", where: `column > 100`, want: []Diagnostic{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFilter(tt.where)
			require.NoError(t, err)

			got, err := f.Apply(ds)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Invalid(t *testing.T) {
	_, err := NewFilter(`severity +`)
	assert.Error(t, err)

	_, err = NewFilter(`line + 1`)
	assert.Error(t, err, "non-boolean expressions are rejected")
}

func TestRender_Plain(t *testing.T) {
	source := "#!benchDL\npool(size = @)\n"

	ds := []Diagnostic{
		Warningf("Duplicated environment variable: x"),
		Dangerf("Parse error: bad token").At(2, 13),
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, ds, RenderOptions{File: "bench.yaml", Source: source}))

	want := "bench.yaml: warning: Duplicated environment variable: x\n" +
		"bench.yaml:2:13: danger: Parse error: bad token\n" +
		"    pool(size = @)\n" +
		"                ^\n"

	assert.Equal(t, want, buf.String())
}

func TestRender_NoPrefix(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, []Diagnostic{Warningf("w")}, RenderOptions{}))

	assert.Equal(t, "warning: w\n", buf.String())
}

func TestColorMode_Enabled(t *testing.T) {
	var buf bytes.Buffer

	assert.True(t, ColorAlways.Enabled(&buf))
	assert.False(t, ColorNever.Enabled(&buf))
	assert.False(t, ColorAuto.Enabled(&buf), "a buffer is not a terminal")
}
