package metrics

import (
	"time"

	"perimeleon/pmexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// SourceMetrics tracks queries against the record source.
type SourceMetrics struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
}

// NewSourceMetrics creates and registers source metrics with the provided registry.
func NewSourceMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SourceMetrics {
	sm := &SourceMetrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "source",
				Name:      "queries_total",
				Help:      "Total number of source queries",
			},
			[]string{"driver", "projection", "status"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "source",
				Name:      "query_duration_seconds",
				Help:      "Time to drain a source cursor in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"driver", "projection"},
		),
	}

	registry.MustRegister(sm.queriesTotal, sm.queryDuration)
	return sm
}

// RecordQuery records one query.
func (sm *SourceMetrics) RecordQuery(driver, projection string, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	sm.queriesTotal.WithLabelValues(driver, projection, status).Inc()
	sm.queryDuration.WithLabelValues(driver, projection).Observe(duration.Seconds())
}

// SinkMetrics tracks output writes.
type SinkMetrics struct {
	writesTotal  *prometheus.CounterVec
	bytesWritten *prometheus.CounterVec
}

// NewSinkMetrics creates and registers sink metrics with the provided registry.
func NewSinkMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *SinkMetrics {
	sm := &SinkMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sink",
				Name:      "writes_total",
				Help:      "Total number of output file writes",
			},
			[]string{"sink", "status"},
		),
		bytesWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "sink",
				Name:      "bytes_written_total",
				Help:      "Total bytes written per output file",
			},
			[]string{"sink", "file"},
		),
	}

	registry.MustRegister(sm.writesTotal, sm.bytesWritten)
	return sm
}

// RecordWrite records one write.
func (sm *SinkMetrics) RecordWrite(sink, file string, bytes int, err error) {
	if err != nil {
		sm.writesTotal.WithLabelValues(sink, StatusError).Inc()
		return
	}
	sm.writesTotal.WithLabelValues(sink, StatusSuccess).Inc()
	sm.bytesWritten.WithLabelValues(sink, file).Add(float64(bytes))
}
