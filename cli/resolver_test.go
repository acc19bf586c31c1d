package cli

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_Flatten(t *testing.T) {
	input := `
log:
  level: debug
  pretty: false
color: never
max_jobs: 4
ratio: 0.5
`

	r, err := resolve(context.Background())(strings.NewReader(input))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	got, ok := r.(config)
	if !ok {
		t.Fatalf("resolver type = %T, want config", r)
	}

	want := config{
		"log-level":  "debug",
		"log-pretty": false,
		"color":      "never",
		"max-jobs":   "4",
		"ratio":      "0.5",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("config = %#v, want %#v", got, want)
	}
}

func TestResolve_InvalidAndEmpty(t *testing.T) {
	for _, input := range []string{"", "log: [\n", "- a\n- b\n"} {
		r, err := resolve(context.Background())(strings.NewReader(input))
		if err != nil {
			t.Fatalf("resolve(%q): %v", input, err)
		}

		if got := r.(config); len(got) != 0 {
			t.Errorf("resolve(%q) = %v, want empty", input, got)
		}
	}
}

type resolverApp struct {
	Level string `default:"info"`
	Count int    `default:"1"`
	Quiet bool
}

func parseWithConfig(t *testing.T, path string, args ...string) resolverApp {
	t.Helper()

	var app resolverApp

	parser, err := kong.New(&app,
		kong.Configuration(resolve(context.Background()), path))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse(args); err != nil {
		t.Fatalf("Parse(%v): %v", args, err)
	}

	return app
}

func TestResolve_Kong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(path, []byte("level: warn\ncount: 3\nquiet: true\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want resolverApp
	}{
		{
			name: "config values",
			args: nil,
			want: resolverApp{Level: "warn", Count: 3, Quiet: true},
		},
		{
			name: "flags override config",
			args: []string{"--level=error", "--count=7"},
			want: resolverApp{Level: "error", Count: 7, Quiet: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseWithConfig(t, path, tt.args...); got != tt.want {
				t.Errorf("parsed %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	got := parseWithConfig(t, filepath.Join(t.TempDir(), "missing.yaml"))

	want := resolverApp{Level: "info", Count: 1}
	if got != want {
		t.Errorf("parsed %+v, want %+v", got, want)
	}
}
