// Package server exposes the operational HTTP endpoint of a long-running
// pmexport scheduler.
//
// # Routes
//
//	/metrics   Prometheus metrics (path configurable)
//	/health    liveness
//	/ready     readiness: source reachable and last export succeeded
//	/version   build information
//
// # Usage
//
//	srv := server.NewServer(cfg.Telemetry.Metrics.Listen, cfg.Telemetry.Metrics.Path,
//	    collector, checker, server.BuildInfo{Version: version})
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// The server stops when ctx is cancelled.
package server
