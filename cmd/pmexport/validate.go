package main

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"perimeleon/pmexport/pkg/cli"
	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/source"
)

const secretMask = "****"

var dsnPassword = regexp.MustCompile(`(password=)\S+`)

var validateFlags struct {
	ping  bool
	print bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration with defaults and environment overrides applied and
report any invalid field. With --ping the source is also connected and
pinged. With --print the effective configuration is printed as YAML, with
passwords and secret keys masked.

Examples:
  pmexport validate --config /etc/pmexport.yaml
  PMEXPORT_SOURCE_MONGO_HOST=localhost pmexport validate --ping --print`,
	RunE: runValidateCmd,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateFlags.ping, "ping", false, "connect to the source and ping it")
	validateCmd.Flags().BoolVar(&validateFlags.print, "print", false, "print the effective configuration")
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if validateFlags.print {
		data, err := yaml.Marshal(maskSecrets(*cfg))
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		fmt.Fprintf(out, "%s\n", data)
	}
	fmt.Fprintln(out, "✓ Configuration valid")

	if validateFlags.ping {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout+time.Second)
		defer cancel()

		resolved, err := resolveSecrets(ctx, cfg)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		start := time.Now()
		src, err := source.New(ctx, &resolved.Source)
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		defer src.Close(context.WithoutCancel(ctx))
		if err := src.Ping(ctx); err != nil {
			return cli.NewCommandError("validate", err)
		}
		fmt.Fprintf(out, "✓ Source %s reachable (%s)\n", src.Name(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// maskSecrets returns a copy of cfg safe to print.
func maskSecrets(cfg config.Config) config.Config {
	if cfg.Source.Mongo.Password != "" {
		cfg.Source.Mongo.Password = secretMask
	}
	if cfg.Source.Postgres.Password != "" {
		cfg.Source.Postgres.Password = secretMask
	}
	if cfg.Output.S3.SecretAccessKey != "" {
		cfg.Output.S3.SecretAccessKey = secretMask
	}
	cfg.Source.Mongo.URI = maskURI(cfg.Source.Mongo.URI)
	cfg.Source.Postgres.DSN = maskURI(cfg.Source.Postgres.DSN)
	return cfg
}

// maskURI hides the password of a URL or of a key=value connection string.
func maskURI(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.User != nil {
		return u.Redacted()
	}
	return dsnPassword.ReplaceAllString(raw, "${1}"+secretMask)
}
