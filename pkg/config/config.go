package config

import "time"

// Config is the root configuration structure for pmexport.
// It contains all configuration sections for the export tool.
type Config struct {
	// Source configures where raw household records are read from.
	Source SourceConfig `yaml:"source"`

	// Output configures where the exported JSON files are written.
	Output OutputConfig `yaml:"output"`

	// Export controls decode and member flattening behavior.
	Export ExportConfig `yaml:"export"`

	// Schedule configures periodic re-export.
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry contains logging, metrics, and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Secrets configures how ${secret:name} references in credentials are
	// resolved.
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig configures secret reference resolution. References may
// appear in the source URI, DSN and password fields and in the S3 keys.
type SecretsConfig struct {
	// EnvPrefix prefixes the environment variable a secret is read from:
	// secret "mongo-password" is read from PMEXPORT_SECRET_MONGO_PASSWORD.
	// Default: "PMEXPORT_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// Directory holds one file per secret (Docker or Kubernetes secret
	// mounts). Files take precedence over the environment. Empty disables
	// file lookup.
	Directory string `yaml:"directory"`
}

// SourceConfig selects and configures the record source.
type SourceConfig struct {
	// Driver selects the source implementation.
	// Options: "mongo", "sqlite", "postgres", "file"
	// Default: "mongo"
	Driver string `yaml:"driver"`

	// Mongo configures the MongoDB source.
	Mongo MongoConfig `yaml:"mongo"`

	// SQLite configures the SQLite document table source.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Postgres configures the PostgreSQL JSONB table source.
	Postgres PostgresConfig `yaml:"postgres"`

	// File configures the JSON dump file source.
	File FileConfig `yaml:"file"`

	// Timeout bounds connecting to the source.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// MongoConfig contains MongoDB connection settings.
type MongoConfig struct {
	// URI is a full connection string. When set, Host, Port and the
	// credentials are ignored.
	URI string `yaml:"uri"`

	// Host is the server host name.
	// Default: "db"
	Host string `yaml:"host"`

	// Port is the server port.
	// Default: 27017
	Port int `yaml:"port"`

	// Database is the database holding the households collection.
	// Default: "PeriMeleon"
	Database string `yaml:"database"`

	// Collection is the households collection name.
	// Default: "households"
	Collection string `yaml:"collection"`

	// Username and Password enable authentication when Username is set.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// AuthSource is the authentication database.
	AuthSource string `yaml:"auth_source"`
}

// SQLiteConfig configures a table of JSON documents in SQLite.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite3" (cgo, mattn/go-sqlite3), "sqlite" (pure Go, modernc.org/sqlite)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Table holds one household document per row.
	// Default: "households"
	Table string `yaml:"table"`

	// IDColumn holds the native record id.
	// Default: "id"
	IDColumn string `yaml:"id_column"`

	// DocumentColumn holds the JSON document.
	// Default: "doc"
	DocumentColumn string `yaml:"document_column"`
}

// PostgresConfig configures a table of JSONB documents in PostgreSQL.
type PostgresConfig struct {
	// DSN is a full connection string. When set, the discrete fields are ignored.
	DSN string `yaml:"dsn"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`

	// SSLMode is passed through to the server.
	// Default: "prefer"
	SSLMode string `yaml:"ssl_mode"`

	// MaxConns bounds the connection pool.
	// Default: 4
	MaxConns int32 `yaml:"max_conns"`

	// Table, IDColumn and DocumentColumn locate the documents.
	// Defaults: "households", "id", "doc"
	Table          string `yaml:"table"`
	IDColumn       string `yaml:"id_column"`
	DocumentColumn string `yaml:"document_column"`
}

// FileConfig configures a dump file of household documents.
type FileConfig struct {
	// Path is the dump file path.
	Path string `yaml:"path"`

	// Format is the dump layout.
	// Options: "json" (one array), "jsonl" (one document per line), "auto"
	// Default: "auto"
	Format string `yaml:"format"`
}

// OutputConfig configures the export destination.
type OutputConfig struct {
	// Sink selects the output implementation.
	// Options: "fs", "s3"
	// Default: "fs"
	Sink string `yaml:"sink"`

	// Directory is the output directory for the "fs" sink.
	// Default: "."
	Directory string `yaml:"directory"`

	// HouseholdsFile is the household export file name.
	// Default: "households.json"
	HouseholdsFile string `yaml:"households_file"`

	// MembersFile is the flattened member export file name.
	// Default: "members.json"
	MembersFile string `yaml:"members_file"`

	// Pretty indents the JSON output.
	// Default: false
	Pretty bool `yaml:"pretty"`

	// S3 configures the "s3" sink.
	S3 S3Config `yaml:"s3"`
}

// S3Config contains S3 bucket settings.
type S3Config struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`

	// Prefix is prepended to every object key.
	Prefix string `yaml:"prefix"`

	// Endpoint overrides the service endpoint (MinIO, localstack).
	Endpoint string `yaml:"endpoint"`

	// UsePathStyle forces path-style addressing.
	UsePathStyle bool `yaml:"use_path_style"`

	// Static credentials. When empty, the default AWS credential chain is used.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// ExportConfig controls the export run.
type ExportConfig struct {
	// MembersMode selects how members.json is built.
	// Options: "flatten" (from decoded households), "projection" (second query)
	// Default: "flatten"
	MembersMode string `yaml:"members_mode"`

	// OnDecodeError selects what happens when a record fails to decode.
	// Options: "skip" (log and continue), "abort"
	// Default: "skip"
	OnDecodeError string `yaml:"on_decode_error"`

	// Namespace is the UUID namespace external ids are derived in.
	// Empty uses the built-in namespace.
	Namespace string `yaml:"namespace"`

	// Timeout bounds a whole export run. Zero means no limit.
	Timeout time.Duration `yaml:"timeout"`
}

// ScheduleConfig configures periodic export.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression.
	// Default: "0 2 * * *"
	Cron string `yaml:"cron"`

	// RunOnStart runs one export immediately when the scheduler starts.
	RunOnStart bool `yaml:"run_on_start"`

	// WatchConfig reloads the configuration file when it changes.
	WatchConfig bool `yaml:"watch_config"`

	// Debounce delays reloads after a change.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	AddSource bool `yaml:"add_source"`

	// RedactPII redacts email addresses and phone numbers in log entries.
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom PII redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom PII redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "pmexport"
	Namespace string `yaml:"namespace"`

	// TextfilePath, when set, receives the metrics in Prometheus text format
	// after each run (node_exporter textfile collector).
	TextfilePath string `yaml:"textfile_path"`

	// Listen is the address the scheduler serves metrics on. Empty disables
	// the endpoint.
	Listen string `yaml:"listen"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether traces are exported.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// ServiceName is the reported service name.
	// Default: "pmexport"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of runs traced.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
