// Package metrics provides Prometheus metrics for pmexport.
//
// # Metrics Categories
//
//   - Export Metrics: runs, run duration, record outcomes, decode error causes,
//     household and member counts of the last successful run
//   - Source Metrics: query count and cursor drain time by driver
//   - Sink Metrics: writes and bytes written by sink and file
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRun(metrics.StatusSuccess, time.Since(start), 12, 31)
//
// A one-shot export has nothing to scrape it, so after each run the registry
// can be written to a file for the node_exporter textfile collector:
//
//	if err := collector.WriteTextfile(); err != nil { ... }
//
// The long-running scheduler serves the same registry over HTTP via Handler.
package metrics
