package metrics

import (
	"fmt"
	"time"

	"perimeleon/pmexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Run status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns the registry and every pmexport metric family. A nil
// *Collector is valid and records nothing, so callers can leave metrics off
// without guarding each call.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	exportMetrics *ExportMetrics
	sourceMetrics *SourceMetrics
	sinkMetrics   *SinkMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "pmexport"}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		exportMetrics: NewExportMetrics(cfg, registry),
		sourceMetrics: NewSourceMetrics(cfg, registry),
		sinkMetrics:   NewSinkMetrics(cfg, registry),
	}
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// Registry returns the registry metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordRun records a finished export run.
//
// Parameters:
//   - status: StatusSuccess or StatusError
//   - duration: wall time of the run
//   - households, members: entries written, only recorded on success
func (c *Collector) RecordRun(status string, duration time.Duration, households, members int) {
	if !c.enabled() {
		return
	}
	c.exportMetrics.RecordRun(status, duration, households, members)
}

// RecordExported counts one household record that decoded and encoded.
func (c *Collector) RecordExported() {
	if !c.enabled() {
		return
	}
	c.exportMetrics.recordsTotal.WithLabelValues("exported").Inc()
}

// RecordSkipped counts one household record dropped for a decode error.
//
// Parameters:
//   - cause: "missing_field", "invalid_enum", "type_mismatch" or "other"
func (c *Collector) RecordSkipped(cause string) {
	if !c.enabled() {
		return
	}
	c.exportMetrics.recordsTotal.WithLabelValues("skipped").Inc()
	c.exportMetrics.decodeErrors.WithLabelValues(cause).Inc()
}

// RecordQuery records one source query.
//
// Parameters:
//   - driver: source driver name
//   - projection: "full" or "members"
//   - duration: time until the cursor was exhausted
//   - err: the query or iteration error, nil on success
func (c *Collector) RecordQuery(driver, projection string, duration time.Duration, err error) {
	if !c.enabled() {
		return
	}
	c.sourceMetrics.RecordQuery(driver, projection, duration, err)
}

// RecordWrite records one output file write.
func (c *Collector) RecordWrite(sink, file string, bytes int, err error) {
	if !c.enabled() {
		return
	}
	c.sinkMetrics.RecordWrite(sink, file, bytes, err)
}

// WriteTextfile writes the registry in Prometheus text format to the
// configured textfile path, for the node_exporter textfile collector.
// It does nothing when no path is configured.
func (c *Collector) WriteTextfile() error {
	if !c.enabled() || c.config.TextfilePath == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(c.config.TextfilePath, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
