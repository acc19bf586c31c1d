package bench

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ardnew/benchdl/lang"
)

// Predefined errors (sentinel values).
var (
	ErrLoadBench = lang.NewError("failed to load bench")
	ErrSaveBench = lang.NewError("failed to save bench")
	ErrSchema    = lang.NewError("bench does not match schema")
)

// Stdin is the path that reads a bench from standard input.
const Stdin = "-"

//go:embed schema.json
var schemaJSON string

const schemaURL = "benchdl://bench.schema.json"

var benchSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("remote $ref not allowed: %s", url)
	}

	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}

	return compiler.Compile(schemaURL)
})

// Format is the encoding of a bench file.
type Format int

const (
	// FormatYAML is the default bench file encoding.
	FormatYAML Format = iota
	// FormatJSON is the dashboard's wire encoding.
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "yaml"
}

// FormatOf selects the format for path by its extension.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}

	return FormatYAML
}

// IsScript reports whether a file holds a bare script rather than a bench
// record, judging by its extension or a leading "#!" line.
func IsScript(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bdl", ".benchdl", ".erl":
		return true
	}

	return bytes.HasPrefix(data, []byte("#!"))
}

// Load reads the bench at path, or from stdin if path is [Stdin].
func Load(ctx context.Context, path string) (*Bench, error) {
	var (
		data []byte
		err  error
	)

	if path == Stdin {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, ErrLoadBench.Wrap(err).With(slog.String("path", path))
	}

	return Decode(ctx, path, data)
}

// Decode parses data read from path. A bare script becomes a bench with an
// empty env named after the file. Anything else must be a YAML or JSON
// bench record matching the bench schema. The env may be given either as a
// list of entries or as a map of name to value.
func Decode(_ context.Context, path string, data []byte) (*Bench, error) {
	if IsScript(path, data) {
		name := filepath.Base(path)

		return &Bench{
			Name:       strings.TrimSuffix(name, filepath.Ext(name)),
			ScriptName: name,
			ScriptBody: string(data),
			Env:        []*EnvVar{},
			script:     true,
		}, nil
	}

	js := data
	if FormatOf(path) != FormatJSON {
		var err error
		if js, err = yaml.YAMLToJSON(data); err != nil {
			return nil, ErrLoadBench.Wrap(err).With(slog.String("path", path))
		}
	}

	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrLoadBench.Wrap(err).With(slog.String("path", path))
	}

	schema, err := benchSchema()
	if err != nil {
		return nil, ErrSchema.Wrap(err)
	}

	if err := schema.Validate(doc); err != nil {
		return nil, ErrSchema.Wrap(err).With(slog.String("path", path))
	}

	rec, _ := doc.(map[string]any)
	normalize(rec)

	js, err = json.Marshal(rec)
	if err != nil {
		return nil, ErrLoadBench.Wrap(err).With(slog.String("path", path))
	}

	var b Bench
	if err := json.Unmarshal(js, &b); err != nil {
		return nil, ErrLoadBench.Wrap(err).With(slog.String("path", path))
	}

	if b.Env == nil {
		b.Env = []*EnvVar{}
	}

	return &b, nil
}

// normalize rewrites a validated record into the shape of [Bench]: scalar
// values become strings and a map env becomes a list.
func normalize(rec map[string]any) {
	if v, ok := rec["nodes"]; ok {
		rec["nodes"] = scalarText(v)
	}

	switch env := rec["env"].(type) {
	case map[string]any:
		m := make(map[string]string, len(env))
		for name, v := range env {
			m[name] = scalarText(v)
		}

		rec["env"] = EnvFromMap(m)

	case []any:
		for _, item := range env {
			if ev, ok := item.(map[string]any); ok {
				ev["value"] = scalarText(ev["value"])
			}
		}
	}
}

func scalarText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Encode writes b to w in format f.
func Encode(w io.Writer, b *Bench, f Format) error {
	var (
		data []byte
		err  error
	)

	switch f {
	case FormatJSON:
		data, err = json.MarshalIndent(b, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.MarshalWithOptions(b,
			yaml.UseLiteralStyleIfMultiline(true),
			yaml.IndentSequence(true),
		)
	}

	if err != nil {
		return ErrSaveBench.Wrap(err)
	}

	_, err = w.Write(data)

	return err
}

// Save writes b to path in the format its extension selects. A bench
// decoded from a bare script is written back as its script body alone. The
// file is replaced atomically.
func Save(path string, b *Bench) error {
	var buf bytes.Buffer

	if b.IsScriptFile() {
		buf.WriteString(b.ScriptBody)
	} else if err := Encode(&buf, b, FormatOf(path)); err != nil {
		return err
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return ErrSaveBench.Wrap(err).With(slog.String("path", path))
	}

	return nil
}

// writeFile replaces path with data through a temporary file in the same
// directory.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()

		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// WithExtra returns a copy of b whose env is the merged analysis result.
func (b *Bench) WithExtra(r AnalysisResult) *Bench {
	out := *b
	out.Env = slices.Clone(r.Merged())

	return &out
}
