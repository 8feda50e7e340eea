package secrets

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"perimeleon/pmexport/pkg/config"
)

func TestManager_GetSecret_FromEnv(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_TEST_KEY", "env-value")

	manager := NewManager(NewEnvProvider("PMEXPORT_SECRET_"))

	value, err := manager.GetSecret(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "env-value" {
		t.Errorf("expected value 'env-value', got '%s'", value)
	}
}

func TestManager_GetSecret_ProviderPriority(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_TEST_KEY", "env-value")
	dir := t.TempDir()
	writeSecret(t, dir, "test-key", "file-value", 0o600)

	fileProvider, err := NewFileProvider(dir)
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	envProvider := NewEnvProvider("PMEXPORT_SECRET_")

	tests := []struct {
		name      string
		providers []SecretProvider
		want      string
	}{
		{"file first", []SecretProvider{fileProvider, envProvider}, "file-value"},
		{"env first", []SecretProvider{envProvider, fileProvider}, "env-value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewManager(tt.providers...).GetSecret(context.Background(), "test-key")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("GetSecret() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_GetSecret_Fallback(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_ONLY_ENV", "from-env")
	dir := t.TempDir()

	manager, err := FromConfig(&config.SecretsConfig{EnvPrefix: "PMEXPORT_SECRET_", Directory: dir})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	value, err := manager.GetSecret(context.Background(), "only-env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "from-env" {
		t.Errorf("expected 'from-env', got %q", value)
	}

	if _, err := manager.GetSecret(context.Background(), "nowhere"); err == nil {
		t.Error("expected error for unknown secret")
	}
}

func TestFromConfig_MissingDirectory(t *testing.T) {
	_, err := FromConfig(&config.SecretsConfig{EnvPrefix: "PMEXPORT_SECRET_", Directory: "/nonexistent/secrets"})
	if err == nil {
		t.Error("expected error for missing secrets directory")
	}
}

func TestManager_ResolveReferences(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_DB_USER", "admin")
	t.Setenv("PMEXPORT_SECRET_DB_PASS", "hunter2")

	manager := NewManager(NewEnvProvider("PMEXPORT_SECRET_"))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no references", "mongodb://localhost:27017", "mongodb://localhost:27017", false},
		{"whole value", "${secret:db-pass}", "hunter2", false},
		{
			name:  "embedded references",
			input: "mongodb://${secret:db-user}:${secret:db-pass}@db:27017",
			want:  "mongodb://admin:hunter2@db:27017",
		},
		{"unresolved", "${secret:missing}", "${secret:missing}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manager.ResolveReferences(context.Background(), tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveReferences() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveReferences() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_ResolveConfig(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_MONGO_PASSWORD", "m0ngo")
	t.Setenv("PMEXPORT_SECRET_S3_KEY", "AKIA")
	t.Setenv("PMEXPORT_SECRET_S3_SECRET", "shh")

	cfg := &config.Config{}
	cfg.Source.Mongo.Password = "${secret:mongo-password}"
	cfg.Source.Mongo.Database = "parish"
	cfg.Output.S3.AccessKeyID = "${secret:s3-key}"
	cfg.Output.S3.SecretAccessKey = "${secret:s3-secret}"

	manager := NewManager(NewEnvProvider("PMEXPORT_SECRET_"))
	resolved, err := manager.ResolveConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ResolveConfig() error = %v", err)
	}

	got := []string{
		resolved.Source.Mongo.Password,
		resolved.Source.Mongo.Database,
		resolved.Output.S3.AccessKeyID,
		resolved.Output.S3.SecretAccessKey,
	}
	if diff := cmp.Diff([]string{"m0ngo", "parish", "AKIA", "shh"}, got); diff != "" {
		t.Errorf("resolved config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source.Mongo.Password != "${secret:mongo-password}" {
		t.Errorf("input config was modified: %q", cfg.Source.Mongo.Password)
	}
}

func TestManager_ResolveConfig_Error(t *testing.T) {
	cfg := &config.Config{}
	cfg.Source.Postgres.DSN = "postgres://u:${secret:pg-missing}@db/parish"

	_, err := NewManager(NewEnvProvider("PMEXPORT_SECRET_")).ResolveConfig(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error for unresolved reference")
	}
	if !strings.Contains(err.Error(), "source.postgres.dsn") {
		t.Errorf("error should name the field: %v", err)
	}
}

func TestRedactSecretName(t *testing.T) {
	tests := map[string]string{
		"abc":            "***",
		"mongo-password": "mo...rd",
	}
	for in, want := range tests {
		if got := redactSecretName(in); got != want {
			t.Errorf("redactSecretName(%q) = %q, want %q", in, got, want)
		}
	}
}
