package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "PMEXPORT_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention PMEXPORT_SECTION_FIELD (e.g., PMEXPORT_SOURCE_MONGO_HOST).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from the defaults.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefault()
	} else {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// ResolvePath returns the configuration file to load. An explicit path is
// returned unchanged. Without one, DefaultConfigPath is used if it exists and
// "" (defaults only) otherwise.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigPath); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return DefaultConfigPath
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format PMEXPORT_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Source overrides
	envString("SOURCE_DRIVER", &cfg.Source.Driver)
	envDuration("SOURCE_TIMEOUT", &cfg.Source.Timeout)
	envString("SOURCE_MONGO_URI", &cfg.Source.Mongo.URI)
	envString("SOURCE_MONGO_HOST", &cfg.Source.Mongo.Host)
	envInt("SOURCE_MONGO_PORT", &cfg.Source.Mongo.Port)
	envString("SOURCE_MONGO_DATABASE", &cfg.Source.Mongo.Database)
	envString("SOURCE_MONGO_COLLECTION", &cfg.Source.Mongo.Collection)
	envString("SOURCE_MONGO_USERNAME", &cfg.Source.Mongo.Username)
	envString("SOURCE_MONGO_PASSWORD", &cfg.Source.Mongo.Password)
	envString("SOURCE_SQLITE_PATH", &cfg.Source.SQLite.Path)
	envString("SOURCE_SQLITE_DRIVER", &cfg.Source.SQLite.Driver)
	envString("SOURCE_POSTGRES_DSN", &cfg.Source.Postgres.DSN)
	envString("SOURCE_POSTGRES_HOST", &cfg.Source.Postgres.Host)
	envInt("SOURCE_POSTGRES_PORT", &cfg.Source.Postgres.Port)
	envString("SOURCE_POSTGRES_DATABASE", &cfg.Source.Postgres.Database)
	envString("SOURCE_POSTGRES_USER", &cfg.Source.Postgres.User)
	envString("SOURCE_POSTGRES_PASSWORD", &cfg.Source.Postgres.Password)
	envString("SOURCE_FILE_PATH", &cfg.Source.File.Path)
	envString("SOURCE_FILE_FORMAT", &cfg.Source.File.Format)

	// Output overrides
	envString("OUTPUT_SINK", &cfg.Output.Sink)
	envString("OUTPUT_DIRECTORY", &cfg.Output.Directory)
	envString("OUTPUT_HOUSEHOLDS_FILE", &cfg.Output.HouseholdsFile)
	envString("OUTPUT_MEMBERS_FILE", &cfg.Output.MembersFile)
	envBool("OUTPUT_PRETTY", &cfg.Output.Pretty)
	envString("OUTPUT_S3_BUCKET", &cfg.Output.S3.Bucket)
	envString("OUTPUT_S3_REGION", &cfg.Output.S3.Region)
	envString("OUTPUT_S3_PREFIX", &cfg.Output.S3.Prefix)
	envString("OUTPUT_S3_ENDPOINT", &cfg.Output.S3.Endpoint)
	envString("OUTPUT_S3_ACCESS_KEY_ID", &cfg.Output.S3.AccessKeyID)
	envString("OUTPUT_S3_SECRET_ACCESS_KEY", &cfg.Output.S3.SecretAccessKey)

	// Export overrides
	envString("EXPORT_MEMBERS_MODE", &cfg.Export.MembersMode)
	envString("EXPORT_ON_DECODE_ERROR", &cfg.Export.OnDecodeError)
	envString("EXPORT_NAMESPACE", &cfg.Export.Namespace)
	envDuration("EXPORT_TIMEOUT", &cfg.Export.Timeout)

	// Schedule overrides
	envString("SCHEDULE_CRON", &cfg.Schedule.Cron)
	envBool("SCHEDULE_RUN_ON_START", &cfg.Schedule.RunOnStart)
	envBool("SCHEDULE_WATCH_CONFIG", &cfg.Schedule.WatchConfig)

	// Telemetry overrides
	envString("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("TELEMETRY_LOGGING_REDACT_PII", &cfg.Telemetry.Logging.RedactPII)
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("TELEMETRY_METRICS_TEXTFILE_PATH", &cfg.Telemetry.Metrics.TextfilePath)
	envString("TELEMETRY_METRICS_LISTEN", &cfg.Telemetry.Metrics.Listen)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envBool("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	envString("SECRETS_DIRECTORY", &cfg.Secrets.Directory)
	if val := os.Getenv(EnvPrefix + "TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}
