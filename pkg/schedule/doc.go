// Package schedule runs exports periodically.
//
// Scheduler wraps robfig/cron with a single-flight guard: a tick that fires
// while the previous export is still running is skipped and logged.
// ConfigWatcher uses fsnotify to reload the configuration file after it
// changes, debounced so that a burst of writes triggers one reload.
//
//	sched, err := schedule.New(cfg.Schedule.Cron, runExport,
//	    schedule.WithLastRun(lastRun),
//	)
//	if err := sched.Start(ctx); err != nil {
//	    return err
//	}
//	defer sched.Stop()
package schedule
