package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultIndent is the block indentation used by [Format] when indent is not
// positive. Blocks are delimited by indentation, so a script cannot be
// written without it.
const DefaultIndent = 4

// Format writes script in benchDL syntax to the writer. The output parses
// back to an equivalent script.
func Format(_ context.Context, w io.Writer, script []*Statement, indent int) error {
	if indent <= 0 {
		indent = DefaultIndent
	}

	for _, st := range script {
		if err := formatStatement(st, w, indent, 0); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the script as JSON to the writer.
func FormatJSON(_ context.Context, w io.Writer, script []*Statement, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(ToNative(script), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(ToNative(script))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the script as YAML to the writer.
func FormatYAML(ctx context.Context, w io.Writer, script []*Statement, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, ToNative(script), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatStatement writes one statement and its block at the given depth.
func formatStatement(st *Statement, w io.Writer, indent, depth int) error {
	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", depth*indent))
	writeStatement(&sb, st, true)

	if len(st.Body) > 0 {
		sb.WriteByte(':')
	}

	sb.WriteByte('\n')

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	for _, child := range st.Body {
		if err := formatStatement(child, w, indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// ToNative converts a script to plain maps and slices for encoding.
// Every node is a map with a "kind" key naming its type.
func ToNative(script []*Statement) []any {
	out := make([]any, len(script))
	for i, st := range script {
		out[i] = statementNative(st)
	}

	return out
}

func statementNative(st *Statement) map[string]any {
	m := map[string]any{
		"kind": "statement",
		"name": st.Name,
		"args": argsNative(st.Args),
		"line": st.Pos.Line,
	}

	if len(st.Body) > 0 {
		m["body"] = ToNative(st.Body)
	}

	return m
}

func argsNative(a Args) map[string]any {
	m := map[string]any{"kind": strings.ToLower(a.Kind.String())}

	switch a.Kind {
	case ArgsPositional:
		terms := make([]any, len(a.Terms))
		for i, t := range a.Terms {
			terms[i] = TermNative(t)
		}

		m["terms"] = terms

	case ArgsMap:
		pairs := make([]any, len(a.Pairs))
		for i, p := range a.Pairs {
			pairs[i] = map[string]any{
				"key":   TermNative(p.Key),
				"value": TermNative(p.Value),
			}
		}

		m["pairs"] = pairs

	case ArgsNone:
	}

	return m
}

// TermNative converts a single term to its native form.
func TermNative(t Term) any {
	switch t := t.(type) {
	case *Atom:
		return map[string]any{"kind": "atom", "value": t.Name}

	case *Number:
		m := map[string]any{"kind": "number", "value": t.Text}
		if t.Suffix != "" {
			m["suffix"] = t.Suffix
		}

		return m

	case *UnitNumber:
		return map[string]any{
			"kind":  "unit_number",
			"value": TermNative(t.Value),
			"units": t.Units,
		}

	case *String:
		return map[string]any{"kind": "string", "value": t.Value}

	case *List:
		items := make([]any, len(t.Items))
		for i, item := range t.Items {
			items[i] = TermNative(item)
		}

		return map[string]any{"kind": "list", "items": items}

	case *Comparison:
		return map[string]any{
			"kind":  "comparison",
			"op":    t.Op,
			"left":  TermNative(t.Left),
			"right": TermNative(t.Right),
		}

	case *Statement:
		return statementNative(t)

	default:
		return nil
	}
}
