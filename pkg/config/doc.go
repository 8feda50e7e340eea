// Package config provides configuration management for pmexport.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. Every field has a default,
// so a run without any configuration file reads the "households" collection of
// the "PeriMeleon" database on host "db" and writes to the current directory.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("pmexport.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("pmexport.yaml")
//
// Passing "" to LoadConfigWithEnvOverrides starts from the defaults.
// ResolvePath picks the default file when it exists.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PMEXPORT_SECTION_FIELD.
// For example:
//
//   - PMEXPORT_SOURCE_MONGO_HOST overrides source.mongo.host
//   - PMEXPORT_OUTPUT_DIRECTORY overrides output.directory
//   - PMEXPORT_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Singleton Pattern
//
//	if err := config.Initialize(path); err != nil {
//	    log.Fatal(err)
//	}
//	cfg := config.GetConfig()
//
// ReloadConfig swaps the global instance only when the new file validates,
// which is what the scheduler's file watcher relies on.
//
// # Example Configuration
//
//	source:
//	  driver: mongo
//	  mongo:
//	    host: db
//	    port: 27017
//	    database: PeriMeleon
//	    collection: households
//	output:
//	  sink: fs
//	  directory: /srv/export
//	  pretty: true
//	export:
//	  members_mode: flatten
//	  on_decode_error: skip
//	schedule:
//	  cron: "0 2 * * *"
//	  watch_config: true
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//	    redact_pii: true
//	  metrics:
//	    enabled: true
//	    textfile_path: /var/lib/node_exporter/pmexport.prom
package config
