package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/benchdl/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The YAML document is converted as follows:
//   - Top-level keys name flags; "log-level" and "log_level" are equivalent
//   - Nested mappings are flattened with "-", so log: {level: debug} sets
//     --log-level
//   - Numbers are converted to strings for kong to parse
//   - Sequences set repeated flags and arguments
//
// Example config file:
//
//	log:
//	  level: debug
//	  pretty: false
//	color: never
//	jobs: 4
//
// Command-line flags override config file values. A file that is not valid
// YAML is ignored with a warning.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && err != io.EOF {
			log.WarnContext(ctx, "ignoring invalid config file",
				slog.String("error", err.Error()))

			return config{}, nil
		}

		cfg := make(config)
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - unknown keys are ignored
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys often use
	// underscores. Keys are normalized to hyphens when flattened.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flatten copies m into r, joining nested keys to prefix with "-".
func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := val.(map[string]any); ok {
			r.flatten(name, sub)

			continue
		}

		r[name] = scalar(val)
	}
}

// scalar converts numbers to the strings kong expects.
func scalar(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out
	default:
		return v
	}
}
