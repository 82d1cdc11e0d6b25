package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/fluxkit/tutorial"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const testConfig = `
name: fluxkit
environment: development
logging:
  level: info
  format: json
  output: stderr
examples:
  interval_period: 10ms
  delay_period: 10ms
`

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range tutorial.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %q:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "(timed)") {
		t.Errorf("list output should mark timed examples:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "fluxkit ") {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestRunCommand(t *testing.T) {
	cfgPath := writeConfig(t, testConfig)

	tests := []struct {
		name    string
		args    []string
		want    []string
		wantErr string
	}{
		{
			name: "single example",
			args: []string{"run", "--config", cfgPath, "zip-ranges"},
			want: []string{"First flux: 2, Second flux: 0", "First flux: 8, Second flux: 3", "sequence completed successfully"},
		},
		{
			name: "several examples",
			args: []string{"run", "--config", cfgPath, "iterable", "to-string"},
			want: []string{`"message":"bruce"`, "bruce willis"},
		},
		{
			name: "timed example on short period",
			args: []string{"run", "--config", cfgPath, "delay-elements"},
			want: []string{`"message":"12"`},
		},
		{
			name: "failing example still succeeds",
			args: []string{"run", "--config", cfgPath, "infinite-interval"},
			want: []string{"Hola 4", "LIMIT_EXCEEDED: Solo hasta 5"},
		},
		{
			name:    "no names",
			args:    []string{"run", "--config", cfgPath},
			wantErr: "no examples given",
		},
		{
			name:    "unknown name",
			args:    []string{"run", "--config", cfgPath, "nope"},
			wantErr: "example: must be one of",
		},
		{
			name:    "bad log level",
			args:    []string{"run", "--config", cfgPath, "--log-level", "loud", "zip-ranges"},
			wantErr: "--log-level",
		},
		{
			name: "missing config file falls back to defaults",
			args: []string{"run", "--config", filepath.Join(t.TempDir(), "absent.yml"), "--log-level", "error", "zip-ranges"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("run: %v\n%s", err, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "environment: production\n"), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Name != serviceName {
		t.Errorf("Name = %q, want %q", cfg.Name, serviceName)
	}
	if cfg.Debug {
		t.Error("production should not default to debug")
	}
	if cfg.Examples.Limit != 5 || cfg.Examples.RetryCount() != 2 {
		t.Errorf("examples defaults not applied: %+v", cfg.Examples)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be off by default")
	}
}

func TestConfigZeroRetries(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, "name: fluxkit\nexamples:\n  retries: 0\n"), "")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if got := cfg.Examples.RetryCount(); got != 0 {
		t.Errorf("RetryCount() = %d, want 0", got)
	}
}

func TestConfigValidation(t *testing.T) {
	path := writeConfig(t, "name: fluxkit\nexamples:\n  interval_period: -1s\n")
	if _, err := loadConfig(path, ""); err == nil || !strings.Contains(err.Error(), "interval_period") {
		t.Fatalf("expected interval_period error, got %v", err)
	}

	path = writeConfig(t, "name: fluxkit\ntelemetry:\n  sample_rate: 2\n")
	if _, err := loadConfig(path, ""); err == nil || !strings.Contains(err.Error(), "sample_rate") {
		t.Fatalf("expected sample_rate error, got %v", err)
	}
}
