package cli

import (
	"testing"

	"github.com/ardnew/benchdl/log"
)

func TestLogConfigScan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithCaller(false),
			log.WithPretty(true),
		)
	})

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		caller bool
		pretty bool
	}{
		{
			name:   "separate values",
			args:   []string{"check", "--log-level", "debug", "--log-format", "json", "a.yaml"},
			level:  "debug",
			format: "json",
			pretty: true,
		},
		{
			name:   "assigned values",
			args:   []string{"--log-level=trace", "--log-caller", "--log-pretty=false"},
			level:  "trace",
			format: "text",
			caller: true,
		},
		{
			name:   "negated",
			args:   []string{"--no-log-pretty", "--no-log-caller=false"},
			level:  "info",
			format: "text",
			caller: true,
		},
		{
			name:   "missing value",
			args:   []string{"--log-level", "--strict"},
			level:  "",
			format: "text",
			pretty: true,
		},
		{
			name:   "stops at terminator",
			args:   []string{"--", "--log-level=error"},
			level:  "info",
			format: "text",
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Level: "info", Format: "text", Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format {
				t.Errorf("level/format = %q/%q, want %q/%q", f.Level, f.Format, tt.level, tt.format)
			}

			if f.Caller != tt.caller || f.Pretty != tt.pretty {
				t.Errorf("caller/pretty = %v/%v, want %v/%v", f.Caller, f.Pretty, tt.caller, tt.pretty)
			}
		})
	}

	if got := log.Default().Level(); got != log.LevelInfo {
		t.Errorf("scan left the default logger at %v", got)
	}
}
