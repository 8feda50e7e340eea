package config

import "time"

// Default values for configuration fields.
const (
	// Source defaults
	DefaultSourceDriver    = "mongo"
	DefaultSourceTimeout   = 10 * time.Second
	DefaultMongoHost       = "db"
	DefaultMongoPort       = 27017
	DefaultMongoDatabase   = "PeriMeleon"
	DefaultMongoCollection = "households"
	DefaultSQLiteDriver    = "sqlite"
	DefaultTable           = "households"
	DefaultIDColumn        = "id"
	DefaultDocumentColumn  = "doc"
	DefaultPostgresPort    = 5432
	DefaultPostgresSSLMode = "prefer"
	DefaultPostgresMaxConn = int32(4)
	DefaultFileFormat      = "auto"

	// Output defaults
	DefaultOutputSink     = "fs"
	DefaultOutputDir      = "."
	DefaultHouseholdsFile = "households.json"
	DefaultMembersFile    = "members.json"

	// Export defaults
	DefaultMembersMode   = "flatten"
	DefaultOnDecodeError = "skip"

	// Schedule defaults
	DefaultScheduleCron     = "0 2 * * *"
	DefaultScheduleDebounce = 500 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsNamespace   = "pmexport"
	DefaultMetricsPath        = "/metrics"
	DefaultTracingServiceName = "pmexport"
	DefaultTracingSampleRatio = 1.0

	// Secrets defaults
	DefaultSecretsEnvPrefix = "PMEXPORT_SECRET_"
)

// DefaultConfigPath is the configuration file read when none is given.
// Its absence is not an error.
const DefaultConfigPath = "pmexport.yaml"

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Source defaults
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = DefaultSourceDriver
	}
	if cfg.Source.Timeout == 0 {
		cfg.Source.Timeout = DefaultSourceTimeout
	}
	if cfg.Source.Mongo.Host == "" {
		cfg.Source.Mongo.Host = DefaultMongoHost
	}
	if cfg.Source.Mongo.Port == 0 {
		cfg.Source.Mongo.Port = DefaultMongoPort
	}
	if cfg.Source.Mongo.Database == "" {
		cfg.Source.Mongo.Database = DefaultMongoDatabase
	}
	if cfg.Source.Mongo.Collection == "" {
		cfg.Source.Mongo.Collection = DefaultMongoCollection
	}
	if cfg.Source.SQLite.Driver == "" {
		cfg.Source.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Source.SQLite.Table == "" {
		cfg.Source.SQLite.Table = DefaultTable
	}
	if cfg.Source.SQLite.IDColumn == "" {
		cfg.Source.SQLite.IDColumn = DefaultIDColumn
	}
	if cfg.Source.SQLite.DocumentColumn == "" {
		cfg.Source.SQLite.DocumentColumn = DefaultDocumentColumn
	}
	if cfg.Source.Postgres.Port == 0 {
		cfg.Source.Postgres.Port = DefaultPostgresPort
	}
	if cfg.Source.Postgres.SSLMode == "" {
		cfg.Source.Postgres.SSLMode = DefaultPostgresSSLMode
	}
	if cfg.Source.Postgres.MaxConns == 0 {
		cfg.Source.Postgres.MaxConns = DefaultPostgresMaxConn
	}
	if cfg.Source.Postgres.Table == "" {
		cfg.Source.Postgres.Table = DefaultTable
	}
	if cfg.Source.Postgres.IDColumn == "" {
		cfg.Source.Postgres.IDColumn = DefaultIDColumn
	}
	if cfg.Source.Postgres.DocumentColumn == "" {
		cfg.Source.Postgres.DocumentColumn = DefaultDocumentColumn
	}
	if cfg.Source.File.Format == "" {
		cfg.Source.File.Format = DefaultFileFormat
	}

	// Output defaults
	if cfg.Output.Sink == "" {
		cfg.Output.Sink = DefaultOutputSink
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.HouseholdsFile == "" {
		cfg.Output.HouseholdsFile = DefaultHouseholdsFile
	}
	if cfg.Output.MembersFile == "" {
		cfg.Output.MembersFile = DefaultMembersFile
	}

	// Export defaults
	if cfg.Export.MembersMode == "" {
		cfg.Export.MembersMode = DefaultMembersMode
	}
	if cfg.Export.OnDecodeError == "" {
		cfg.Export.OnDecodeError = DefaultOnDecodeError
	}

	// Schedule defaults
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = DefaultScheduleCron
	}
	if cfg.Schedule.Debounce == 0 {
		cfg.Schedule.Debounce = DefaultScheduleDebounce
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}

	// Secrets defaults
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
}

// NewDefault returns a configuration with every default applied.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
