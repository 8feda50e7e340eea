package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"perimeleon/pmexport/pkg/config"
)

const dump = `{"_id": {"$oid": "64b7f0c2a1b2c3d4e5f60718"}, "_Household__head": {"family_name": "Smith", "given_name": "A", "sex": "M", "status": "COMMUNING", "marital_status": "married"}, "_Household__others": [{"family_name": "Smith", "given_name": "C", "sex": "F", "status": "NONCOMMUNING", "marital_status": "single"}]}
{"_id": {"$oid": "64b7f0c2a1b2c3d4e5f60719"}, "_Household__head": {"family_name": "Jones", "given_name": "B", "sex": "X", "status": "COMMUNING", "marital_status": "married"}}
`

// setup writes a dump and a config file pointing at it and returns the
// config path and the output directory.
func setup(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	dumpPath := filepath.Join(dir, "households.jsonl")
	if err := os.WriteFile(dumpPath, []byte(dump), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := "source:\n  driver: file\n  file:\n    path: " + dumpPath + "\n" +
		"output:\n  directory: " + out + "\n" +
		"telemetry:\n  logging:\n    level: error\n"
	cfgPath := filepath.Join(dir, "pmexport.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfgPath, out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	exportFlags.format, exportFlags.outputDir, exportFlags.membersMode, exportFlags.onError = "text", "", "", ""
	exportFlags.pretty, exportFlags.progress = false, false
	validateFlags.ping, validateFlags.print = false, false
	cfgFile, verbose = "", false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestExportCommand(t *testing.T) {
	cfgPath, out := setup(t)

	stdout, err := execute(t, "export", "--config", cfgPath)
	if err != nil {
		t.Fatalf("export error = %v\n%s", err, stdout)
	}
	for _, want := range []string{"1 households found", "2 members found", "1 record skipped"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("report missing %q:\n%s", want, stdout)
		}
	}

	data, err := os.ReadFile(filepath.Join(out, "members.json"))
	if err != nil {
		t.Fatalf("members.json: %v", err)
	}
	var members []map[string]any
	if err := json.Unmarshal(data, &members); err != nil {
		t.Fatalf("members.json invalid: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("members = %d entries, want 2", len(members))
	}
}

func TestExportCommand_AbortWritesNothing(t *testing.T) {
	cfgPath, out := setup(t)

	if _, err := execute(t, "export", "--config", cfgPath, "--on-error", "abort"); err == nil {
		t.Fatal("export --on-error abort expected error")
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output directory not empty: %v", entries)
	}
}

func TestExportCommand_JSONReport(t *testing.T) {
	cfgPath, _ := setup(t)

	stdout, err := execute(t, "export", "--config", cfgPath, "--format", "json")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	var report map[string]any
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, stdout)
	}
	if report["households"] != float64(1) {
		t.Errorf("households = %v, want 1", report["households"])
	}
}

func TestExportCommand_BadFormat(t *testing.T) {
	if _, err := execute(t, "export", "--format", "xml"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidateCommand(t *testing.T) {
	cfgPath, _ := setup(t)

	stdout, err := execute(t, "validate", "--config", cfgPath, "--ping", "--print")
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, stdout)
	}
	for _, want := range []string{"driver: file", "Configuration valid", "Source file reachable"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestMaskURI(t *testing.T) {
	tests := []struct{ in, want string }{
		{"mongodb://admin:hunter2@db:27017/", "mongodb://admin:xxxxx@db:27017/"},
		{"host=pg user=pm password=hunter2 dbname=pm", "host=pg user=pm password=**** dbname=pm"},
		{"mongodb://db:27017", "mongodb://db:27017"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := maskURI(tt.in); got != tt.want {
			t.Errorf("maskURI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveSecrets(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_PG_PASSWORD", "hunter2")

	cfg := config.NewDefault()
	cfg.Source.Postgres.Password = "${secret:pg-password}"

	resolved, err := resolveSecrets(context.Background(), cfg)
	if err != nil {
		t.Fatalf("resolveSecrets() error = %v", err)
	}
	if resolved.Source.Postgres.Password != "hunter2" {
		t.Errorf("password = %q, want hunter2", resolved.Source.Postgres.Password)
	}
	if cfg.Source.Postgres.Password != "${secret:pg-password}" {
		t.Errorf("loaded configuration was modified")
	}
}
