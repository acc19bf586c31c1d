package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormat_SimplestExample(t *testing.T) {
	script := mustParse(t, simplestExample)

	var buf bytes.Buffer
	if err := Format(context.Background(), &buf, script, 4); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := `pool(size = 3, worker_type = dummy_worker):
    loop(time = 5 min, rate = numvar("loop_rate") rps):
        print("FOO")
`

	if got := buf.String(); got != want {
		t.Errorf("format mismatch:\nwant: %q\ngot:  %q", want, got)
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		simplestExample,
		`f("tab\tquote\"back\\slash", 'Quoted atom', [1, 2K, 3.5e-1 ms])`,
		"make_install\nrun(\"a\" >= 1):\n  x()\n  y(k = [])\n",
		`'odd-name'(var("x", 1) = now())`,
	}

	for _, input := range inputs {
		original := mustParse(t, input)

		for _, indent := range []int{0, 2} {
			var buf bytes.Buffer
			if err := Format(context.Background(), &buf, original, indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			reparsed := mustParse(t, buf.String())

			if diff := cmp.Diff(original, reparsed, ignorePositions); diff != "" {
				t.Errorf("round trip of %q changed the script (-want +got):\n%s", input, diff)
			}
		}
	}
}

func TestFormatJSON(t *testing.T) {
	script := mustParse(t, simplestExample)

	var buf bytes.Buffer
	if err := FormatJSON(context.Background(), &buf, script, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if len(decoded) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(decoded))
	}

	if decoded[0]["name"] != "pool" || decoded[0]["kind"] != "statement" {
		t.Errorf("unexpected root: %v", decoded[0])
	}

	args, ok := decoded[0]["args"].(map[string]any)
	if !ok || args["kind"] != "map" {
		t.Errorf("expected map args, got %v", decoded[0]["args"])
	}
}

func TestFormatYAML(t *testing.T) {
	script := mustParse(t, simplestExample)

	var buf bytes.Buffer
	if err := FormatYAML(context.Background(), &buf, script, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"name: pool", "units: rps", "value: loop_rate"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}
