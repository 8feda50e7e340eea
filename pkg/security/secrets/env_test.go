package secrets

import (
	"context"
	"testing"
)

func TestEnvProvider_GetSecret(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_TEST_KEY", "test-value")

	provider := NewEnvProvider("PMEXPORT_SECRET_")

	value, err := provider.GetSecret(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if value != "test-value" {
		t.Errorf("expected value 'test-value', got '%s'", value)
	}
}

func TestEnvProvider_GetSecret_NotFound(t *testing.T) {
	provider := NewEnvProvider("PMEXPORT_SECRET_")

	_, err := provider.GetSecret(context.Background(), "nonexistent-key")
	if err == nil {
		t.Error("expected error for nonexistent secret, got nil")
	}
}

func TestEnvProvider_SecretNameConversion(t *testing.T) {
	tests := []struct {
		name       string
		secretName string
		envVarName string
	}{
		{"simple name", "mongo-password", "PMEXPORT_SECRET_MONGO_PASSWORD"},
		{"multiple hyphens", "s3-secret-access-key", "PMEXPORT_SECRET_S3_SECRET_ACCESS_KEY"},
		{"underscores", "pg_dsn", "PMEXPORT_SECRET_PG_DSN"},
		{"mixed case", "MongoUri", "PMEXPORT_SECRET_MONGOURI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVarName, "value")
			provider := NewEnvProvider("PMEXPORT_SECRET_")

			if !provider.Supports(tt.secretName) {
				t.Fatalf("Supports(%q) = false, want true", tt.secretName)
			}
			value, err := provider.GetSecret(context.Background(), tt.secretName)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if value != "value" {
				t.Errorf("expected 'value', got '%s'", value)
			}
		})
	}
}

func TestEnvProvider_Supports(t *testing.T) {
	t.Setenv("PMEXPORT_SECRET_PRESENT", "x")
	provider := NewEnvProvider("PMEXPORT_SECRET_")

	if !provider.Supports("present") {
		t.Error("expected Supports to be true for a set variable")
	}
	if provider.Supports("absent") {
		t.Error("expected Supports to be false for an unset variable")
	}
	if provider.Provider() != "env" {
		t.Errorf("Provider() = %q, want env", provider.Provider())
	}
}
