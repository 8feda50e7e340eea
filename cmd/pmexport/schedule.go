package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"perimeleon/pmexport/pkg/cli"
	"perimeleon/pmexport/pkg/config"
	"perimeleon/pmexport/pkg/schedule"
	"perimeleon/pmexport/pkg/server"
	"perimeleon/pmexport/pkg/source"
	"perimeleon/pmexport/pkg/telemetry/health"
)

var scheduleFlags struct {
	listen     string
	runOnStart bool
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Export periodically on a cron schedule",
	Long: `Run exports on the cron schedule from the configuration (default daily at
02:00) until interrupted. A tick that fires while an export is still running
is skipped.

When telemetry.metrics.listen is set, Prometheus metrics and the /health,
/ready and /version probes are served on that address. With
schedule.watch_config the configuration file is reloaded when it changes;
the next export uses the new source, output and export settings.

Examples:
  # Nightly export with the configured schedule
  pmexport schedule --config /etc/pmexport.yaml

  # Export immediately, then on schedule, serving metrics on :9464
  pmexport schedule --run-on-start --listen :9464`,
	RunE: runScheduleCmd,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVarP(&scheduleFlags.listen, "listen", "l", "", "override metrics and health listen address")
	scheduleCmd.Flags().BoolVar(&scheduleFlags.runOnStart, "run-on-start", false, "export once immediately")
}

func runScheduleCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scheduleFlags.listen != "" {
		cfg.Telemetry.Metrics.Listen = scheduleFlags.listen
		cfg.Telemetry.Metrics.Enabled = true
	}
	if scheduleFlags.runOnStart {
		cfg.Schedule.RunOnStart = true
	}

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	tel, err := newTelemetry(&cfg.Telemetry)
	if err != nil {
		return cli.NewConfigError("telemetry.tracing", err.Error())
	}
	defer tel.Shutdown(context.WithoutCancel(ctx))

	lastRun := &health.LastRun{}
	run := func(ctx context.Context) error {
		_, err := runExport(ctx, config.GetConfig(), tel, nil)
		return err
	}
	sched, err := schedule.New(cfg.Schedule.Cron, run,
		schedule.WithLastRun(lastRun),
		schedule.WithLogger(slog.Default()),
	)
	if err != nil {
		return cli.NewConfigError("schedule.cron", err.Error())
	}

	if cfg.Telemetry.Metrics.Listen != "" {
		checker := health.New(cfg.Source.Timeout)
		checker.RegisterCheck("last_run", lastRun.Check)
		checker.RegisterCheck("source", pingSource)

		srv := server.NewServer(cfg.Telemetry.Metrics.Listen, cfg.Telemetry.Metrics.Path, tel.collector, checker,
			server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate})
		if err := srv.Start(ctx); err != nil {
			return cli.NewCommandError("schedule", err)
		}
	}

	config.OnReload(func(c *config.Config) {
		if err := sched.Reschedule(c.Schedule.Cron); err != nil {
			slog.Error("schedule not changed", "error", err)
		}
	})
	if path := config.Path(); cfg.Schedule.WatchConfig && path != "" {
		watcher, err := schedule.NewConfigWatcher(path, cfg.Schedule.Debounce, slog.Default())
		if err != nil {
			return cli.NewCommandError("schedule", err)
		}
		go func() {
			if err := watcher.Watch(ctx, func() error { return config.ReloadConfig(path) }); err != nil {
				slog.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	if err := sched.Start(ctx); err != nil {
		return cli.NewCommandError("schedule", err)
	}
	if cfg.Schedule.RunOnStart {
		go func() {
			if err := sched.RunNow(ctx); errors.Is(err, schedule.ErrAlreadyRunning) {
				slog.Warn("initial export skipped", "error", err)
			}
		}()
	}

	<-ctx.Done()
	slog.Info("shutting down")
	sched.Stop()
	return nil
}

// pingSource checks that the currently configured source is reachable.
func pingSource(ctx context.Context) error {
	cfg, err := resolveSecrets(ctx, config.GetConfig())
	if err != nil {
		return err
	}
	src, err := source.New(ctx, &cfg.Source)
	if err != nil {
		return err
	}
	defer src.Close(context.WithoutCancel(ctx))
	return src.Ping(ctx)
}
