package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"perimeleon/pmexport/pkg/cli"
	"perimeleon/pmexport/pkg/export"
)

var exportFlags struct {
	format      string
	outputDir   string
	membersMode string
	onError     string
	pretty      bool
	progress    bool
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export households and members once",
	Long: `Read every household from the source and write households.json and
members.json. Records that fail to decode are skipped and listed in the
report unless --on-error abort is given. No file is written when the run
fails.

Examples:
  # Export with the built-in defaults
  pmexport export

  # Write to another directory, pretty printed
  pmexport export --output-dir /srv/www/data --pretty

  # Fail on the first bad record
  pmexport export --on-error abort

  # Machine-readable report
  pmexport export --format json`,
	RunE: runExportCmd,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.format, "format", "text", "report format: text, json")
	exportCmd.Flags().StringVarP(&exportFlags.outputDir, "output-dir", "o", "", "override output directory (fs sink)")
	exportCmd.Flags().StringVar(&exportFlags.membersMode, "members-mode", "", "override members mode: flatten, projection")
	exportCmd.Flags().StringVar(&exportFlags.onError, "on-error", "", "override decode error policy: skip, abort")
	exportCmd.Flags().BoolVar(&exportFlags.pretty, "pretty", false, "indent the JSON output")
	exportCmd.Flags().BoolVar(&exportFlags.progress, "progress", false, "show a running household count on stderr")
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportFlags.outputDir != "" {
		cfg.Output.Directory = exportFlags.outputDir
	}
	if exportFlags.membersMode != "" {
		cfg.Export.MembersMode = exportFlags.membersMode
	}
	if exportFlags.onError != "" {
		cfg.Export.OnDecodeError = exportFlags.onError
	}
	if exportFlags.pretty {
		cfg.Output.Pretty = true
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	tel, err := newTelemetry(&cfg.Telemetry)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer tel.Shutdown(context.WithoutCancel(ctx))

	var progress cli.ProgressReporter
	var exportProgress export.Progress
	if exportFlags.progress {
		progress = cli.NewProgressReporter(os.Stderr)
		progress.Start(0)
		exportProgress = progress
	}

	report, err := runExport(ctx, cfg, tel, exportProgress)
	if progress != nil {
		if err != nil {
			progress.Error(err)
		} else {
			progress.Finish()
		}
	}
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	return cli.Render(cmd.OutOrStdout(), format, report)
}
