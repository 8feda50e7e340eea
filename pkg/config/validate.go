package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "source.mongo.port").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateOutput(&cfg.Output)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateSchedule(&cfg.Schedule)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// identifierPattern restricts table and column names, which are interpolated into SQL.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIdentifiers(prefix string, pairs map[string]string) []FieldError {
	var errs []FieldError
	for field, value := range pairs {
		if !identifierPattern.MatchString(value) {
			errs = append(errs, FieldError{
				Field:   prefix + "." + field,
				Message: fmt.Sprintf("invalid SQL identifier %q", value),
			})
		}
	}
	return errs
}

// validateSource validates source configuration.
func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "source.timeout",
			Message: "timeout cannot be negative",
		})
	}

	switch cfg.Driver {
	case "mongo":
		if cfg.Mongo.URI == "" {
			if cfg.Mongo.Host == "" {
				errs = append(errs, FieldError{
					Field:   "source.mongo.host",
					Message: "host is required when uri is not set",
				})
			}
			if cfg.Mongo.Port < 1 || cfg.Mongo.Port > 65535 {
				errs = append(errs, FieldError{
					Field:   "source.mongo.port",
					Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Mongo.Port),
				})
			}
		} else if !strings.HasPrefix(cfg.Mongo.URI, "${secret:") &&
			!strings.HasPrefix(cfg.Mongo.URI, "mongodb://") && !strings.HasPrefix(cfg.Mongo.URI, "mongodb+srv://") {
			errs = append(errs, FieldError{
				Field:   "source.mongo.uri",
				Message: "uri must use the mongodb:// or mongodb+srv:// scheme",
			})
		}
		if cfg.Mongo.Database == "" {
			errs = append(errs, FieldError{
				Field:   "source.mongo.database",
				Message: "database is required",
			})
		}
		if cfg.Mongo.Collection == "" {
			errs = append(errs, FieldError{
				Field:   "source.mongo.collection",
				Message: "collection is required",
			})
		}

	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "source.sqlite.path",
				Message: "path is required when driver is 'sqlite'",
			})
		}
		if cfg.SQLite.Driver != "sqlite" && cfg.SQLite.Driver != "sqlite3" {
			errs = append(errs, FieldError{
				Field:   "source.sqlite.driver",
				Message: fmt.Sprintf("invalid sqlite driver %q: must be 'sqlite' or 'sqlite3'", cfg.SQLite.Driver),
			})
		}
		errs = append(errs, validateIdentifiers("source.sqlite", map[string]string{
			"table":           cfg.SQLite.Table,
			"id_column":       cfg.SQLite.IDColumn,
			"document_column": cfg.SQLite.DocumentColumn,
		})...)

	case "postgres":
		if cfg.Postgres.DSN == "" {
			if cfg.Postgres.Host == "" {
				errs = append(errs, FieldError{
					Field:   "source.postgres.host",
					Message: "host is required when dsn is not set",
				})
			}
			if cfg.Postgres.Database == "" {
				errs = append(errs, FieldError{
					Field:   "source.postgres.database",
					Message: "database is required when dsn is not set",
				})
			}
			if cfg.Postgres.Port < 1 || cfg.Postgres.Port > 65535 {
				errs = append(errs, FieldError{
					Field:   "source.postgres.port",
					Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Postgres.Port),
				})
			}
		}
		if cfg.Postgres.MaxConns < 1 {
			errs = append(errs, FieldError{
				Field:   "source.postgres.max_conns",
				Message: "max_conns must be at least 1",
			})
		}
		errs = append(errs, validateIdentifiers("source.postgres", map[string]string{
			"table":           cfg.Postgres.Table,
			"id_column":       cfg.Postgres.IDColumn,
			"document_column": cfg.Postgres.DocumentColumn,
		})...)

	case "file":
		if cfg.File.Path == "" {
			errs = append(errs, FieldError{
				Field:   "source.file.path",
				Message: "path is required when driver is 'file'",
			})
		}
		validFormats := map[string]bool{"json": true, "jsonl": true, "auto": true}
		if !validFormats[cfg.File.Format] {
			errs = append(errs, FieldError{
				Field:   "source.file.format",
				Message: fmt.Sprintf("invalid format %q: must be 'json', 'jsonl', or 'auto'", cfg.File.Format),
			})
		}

	default:
		errs = append(errs, FieldError{
			Field:   "source.driver",
			Message: fmt.Sprintf("invalid driver %q: must be 'mongo', 'sqlite', 'postgres', or 'file'", cfg.Driver),
		})
	}

	return errs
}

// validateOutput validates output configuration.
func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	for field, name := range map[string]string{
		"households_file": cfg.HouseholdsFile,
		"members_file":    cfg.MembersFile,
	} {
		if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
			errs = append(errs, FieldError{
				Field:   "output." + field,
				Message: fmt.Sprintf("file name %q must be a plain file name", name),
			})
		}
	}
	if cfg.HouseholdsFile == cfg.MembersFile {
		errs = append(errs, FieldError{
			Field:   "output.members_file",
			Message: "members file must differ from households file",
		})
	}

	switch cfg.Sink {
	case "fs":
		if cfg.Directory == "" {
			errs = append(errs, FieldError{
				Field:   "output.directory",
				Message: "directory is required when sink is 'fs'",
			})
		}
	case "s3":
		if cfg.S3.Bucket == "" {
			errs = append(errs, FieldError{
				Field:   "output.s3.bucket",
				Message: "bucket is required when sink is 's3'",
			})
		}
		if cfg.S3.Region == "" {
			errs = append(errs, FieldError{
				Field:   "output.s3.region",
				Message: "region is required when sink is 's3'",
			})
		}
		if (cfg.S3.AccessKeyID == "") != (cfg.S3.SecretAccessKey == "") {
			errs = append(errs, FieldError{
				Field:   "output.s3.secret_access_key",
				Message: "access_key_id and secret_access_key must be set together",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "output.sink",
			Message: fmt.Sprintf("invalid sink %q: must be 'fs' or 's3'", cfg.Sink),
		})
	}

	return errs
}

// validateExport validates export configuration.
func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.MembersMode != "flatten" && cfg.MembersMode != "projection" {
		errs = append(errs, FieldError{
			Field:   "export.members_mode",
			Message: fmt.Sprintf("invalid members mode %q: must be 'flatten' or 'projection'", cfg.MembersMode),
		})
	}
	if cfg.OnDecodeError != "skip" && cfg.OnDecodeError != "abort" {
		errs = append(errs, FieldError{
			Field:   "export.on_decode_error",
			Message: fmt.Sprintf("invalid decode error policy %q: must be 'skip' or 'abort'", cfg.OnDecodeError),
		})
	}
	if cfg.Namespace != "" {
		if _, err := uuid.Parse(cfg.Namespace); err != nil {
			errs = append(errs, FieldError{
				Field:   "export.namespace",
				Message: fmt.Sprintf("namespace must be a UUID: %v", err),
			})
		}
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "export.timeout",
			Message: "timeout cannot be negative",
		})
	}

	return errs
}

// validateSchedule validates schedule configuration.
func validateSchedule(cfg *ScheduleConfig) []FieldError {
	var errs []FieldError

	if _, err := cron.ParseStandard(cfg.Cron); err != nil {
		errs = append(errs, FieldError{
			Field:   "schedule.cron",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Cron, err),
		})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "schedule.debounce",
			Message: "debounce cannot be negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if cfg.Metrics.Listen != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: fmt.Sprintf("metrics path %q must start with '/'", cfg.Metrics.Path),
		})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

func validateSecrets(cfg *SecretsConfig) []FieldError {
	if cfg.Directory == "" {
		return nil
	}
	info, err := os.Stat(cfg.Directory)
	if err != nil {
		return []FieldError{{Field: "secrets.directory", Message: err.Error()}}
	}
	if !info.IsDir() {
		return []FieldError{{Field: "secrets.directory", Message: "not a directory"}}
	}
	return nil
}
