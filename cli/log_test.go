package cli

import (
	"testing"

	"github.com/ardnew/unitgen/log"
)

func TestLogScan(t *testing.T) {
	t.Cleanup(func() { log.Config(log.WithLevel(log.DefaultLevel), log.WithPretty(true), log.WithCaller(false)) })

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"generate", "--log-level", "trace", "--log-format", "json"},
			want: logConfig{Level: "trace", Format: "json", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=debug", "--log-time-layout=kitchen", "--log-caller"},
			want: logConfig{Level: "debug", TimeLayout: "kitchen", Caller: true, Pretty: true},
		},
		{
			name: "negated toggles",
			args: []string{"--no-log-pretty", "--log-caller=false"},
			want: logConfig{},
		},
		{
			name: "negated assignment",
			args: []string{"--no-log-pretty=false"},
			want: logConfig{Pretty: true},
		},
		{
			name: "missing value",
			args: []string{"--log-level", "--force"},
			want: logConfig{Pretty: true},
		},
		{
			name: "after terminator",
			args: []string{"--", "--log-level=error"},
			want: logConfig{Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logConfig{Pretty: true}
			got.scan(tt.args)

			if got != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestLogVars(t *testing.T) {
	var c logConfig

	vars := c.vars()
	if vars["logLevelEnum"] != "trace,debug,info,warn,error" || vars["logFormatEnum"] != "text,json" {
		t.Errorf("vars() = %v", vars)
	}
}
