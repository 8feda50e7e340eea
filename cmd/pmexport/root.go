package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"perimeleon/pmexport/pkg/cli"
	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pmexport",
	Short: "Export PeriMeleon households and members as clean JSON",
	Long: `pmexport reads household records from the PeriMeleon document store and
writes them as two JSON files using the public field names:

  households.json   one entry per household (head, spouse, others, address)
  members.json      one entry per member, head first, then spouse, then others

Without a configuration file the store is expected at db:27017, database
PeriMeleon, collection households, and the files are written to the current
directory. Every setting can be overridden with PMEXPORT_* environment variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default "+config.DefaultConfigPath+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig loads the configuration into the global instance and installs
// the configured logger as the slog default.
func loadConfig() (*config.Config, error) {
	path := config.ResolvePath(cfgFile)
	if err := config.Initialize(path); err != nil {
		return nil, cli.NewConfigError(path, err.Error())
	}
	cfg := config.GetConfig()

	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()

	if path == "" {
		logger.Debug("no configuration file, using defaults")
	} else {
		logger.Debug("configuration loaded", "path", path)
	}
	return cfg, nil
}
