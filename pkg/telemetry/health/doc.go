// Package health provides the probe endpoints served by the export scheduler.
//
//   - /health: liveness, always 200 while the process runs
//   - /ready: readiness, 503 when any registered check fails
//   - /version: build information
//
// The scheduler registers a "source" check that pings the configured record
// source and a "last_run" check backed by LastRun, so a failing nightly
// export surfaces on the readiness probe until the next run succeeds.
package health
