package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "mongo port out of range",
			mutate:    func(c *Config) { c.Source.Mongo.Port = 70000 },
			wantField: "source.mongo.port",
		},
		{
			name:      "mongo uri scheme",
			mutate:    func(c *Config) { c.Source.Mongo.URI = "http://db" },
			wantField: "source.mongo.uri",
		},
		{
			name:      "mongo collection empty",
			mutate:    func(c *Config) { c.Source.Mongo.Collection = "" },
			wantField: "source.mongo.collection",
		},
		{
			name: "sqlite identifier injection",
			mutate: func(c *Config) {
				c.Source.Driver = "sqlite"
				c.Source.SQLite.Path = "x.db"
				c.Source.SQLite.Table = "households; DROP TABLE x"
			},
			wantField: "source.sqlite.table",
		},
		{
			name: "sqlite unknown driver",
			mutate: func(c *Config) {
				c.Source.Driver = "sqlite"
				c.Source.SQLite.Path = "x.db"
				c.Source.SQLite.Driver = "sqlcipher"
			},
			wantField: "source.sqlite.driver",
		},
		{
			name:      "postgres without dsn or host",
			mutate:    func(c *Config) { c.Source.Driver = "postgres"; c.Source.Postgres.Database = "pm" },
			wantField: "source.postgres.host",
		},
		{
			name: "file bad format",
			mutate: func(c *Config) {
				c.Source.Driver = "file"
				c.Source.File.Path = "dump.json"
				c.Source.File.Format = "csv"
			},
			wantField: "source.file.format",
		},
		{
			name:      "households file with directory",
			mutate:    func(c *Config) { c.Output.HouseholdsFile = "out/households.json" },
			wantField: "output.households_file",
		},
		{
			name:      "same output file twice",
			mutate:    func(c *Config) { c.Output.MembersFile = c.Output.HouseholdsFile },
			wantField: "output.members_file",
		},
		{
			name:      "s3 without bucket",
			mutate:    func(c *Config) { c.Output.Sink = "s3"; c.Output.S3.Region = "us-east-1" },
			wantField: "output.s3.bucket",
		},
		{
			name: "s3 half credentials",
			mutate: func(c *Config) {
				c.Output.Sink = "s3"
				c.Output.S3.Bucket = "b"
				c.Output.S3.Region = "us-east-1"
				c.Output.S3.AccessKeyID = "AKIA"
			},
			wantField: "output.s3.secret_access_key",
		},
		{
			name:      "members mode",
			mutate:    func(c *Config) { c.Export.MembersMode = "nested" },
			wantField: "export.members_mode",
		},
		{
			name:      "decode error policy",
			mutate:    func(c *Config) { c.Export.OnDecodeError = "retry" },
			wantField: "export.on_decode_error",
		},
		{
			name:      "namespace not a uuid",
			mutate:    func(c *Config) { c.Export.Namespace = "perimeleon" },
			wantField: "export.namespace",
		},
		{
			name:      "bad cron",
			mutate:    func(c *Config) { c.Schedule.Cron = "every night" },
			wantField: "schedule.cron",
		},
		{
			name:      "logging level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			wantField: "telemetry.logging.level",
		},
		{
			name: "redact pattern",
			mutate: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "bad", Pattern: "("}}
			},
			wantField: "telemetry.logging.redact_patterns[0].pattern",
		},
		{
			name:      "tracing without endpoint",
			mutate:    func(c *Config) { c.Telemetry.Tracing.Enabled = true },
			wantField: "telemetry.tracing.endpoint",
		},
		{
			name:      "secrets directory missing",
			mutate:    func(c *Config) { c.Secrets.Directory = "/nonexistent/pmexport-secrets" },
			wantField: "secrets.directory",
		},
		{
			name:      "sample ratio",
			mutate:    func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 },
			wantField: "telemetry.tracing.sample_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			var valErr ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("error type = %T, want ValidationError", err)
			}
			found := false
			for _, fe := range valErr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors = %v, want one for %s", valErr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidate_MongoURISkipsHostCheck(t *testing.T) {
	cfg := NewDefault()
	cfg.Source.Mongo.URI = "mongodb+srv://cluster.example.net"
	cfg.Source.Mongo.Host = ""
	cfg.Source.Mongo.Port = 0

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidate_SecretReferenceURI(t *testing.T) {
	cfg := NewDefault()
	cfg.Source.Mongo.URI = "${secret:mongo-uri}"
	cfg.Secrets.Directory = t.TempDir()

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidationError_Format(t *testing.T) {
	single := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}}}
	if got := single.Error(); got != "configuration validation failed: a: bad" {
		t.Errorf("Error() = %q", got)
	}

	multi := ValidationError{Errors: []FieldError{{Field: "a", Message: "bad"}, {Field: "b", Message: "worse"}}}
	if got := multi.Error(); !strings.Contains(got, "2 errors") || !strings.Contains(got, "  - b: worse") {
		t.Errorf("Error() = %q", got)
	}
}
