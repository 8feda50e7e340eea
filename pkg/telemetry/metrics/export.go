package metrics

import (
	"time"

	"perimeleon/pmexport/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ExportMetrics tracks export runs and per-record outcomes.
//
// Metrics:
//   - pmexport_export_runs_total: Runs by status
//   - pmexport_export_run_duration_seconds: Run duration histogram
//   - pmexport_export_records_total: Household records by result (exported, skipped)
//   - pmexport_export_decode_errors_total: Decode failures by cause
//   - pmexport_export_households: Households in the last successful export
//   - pmexport_export_members: Members in the last successful export
//   - pmexport_export_last_success_timestamp_seconds: Completion time of the last successful run
type ExportMetrics struct {
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	recordsTotal *prometheus.CounterVec
	decodeErrors *prometheus.CounterVec
	households   prometheus.Gauge
	members      prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

// NewExportMetrics creates and registers export metrics with the provided registry.
func NewExportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ExportMetrics {
	em := &ExportMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "runs_total",
				Help:      "Total number of export runs",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "run_duration_seconds",
				Help:      "Duration of export runs in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"status"},
		),

		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "records_total",
				Help:      "Total number of household records processed",
			},
			[]string{"result"},
		),

		decodeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "export",
				Name:      "decode_errors_total",
				Help:      "Total number of records that failed to decode",
			},
			[]string{"cause"},
		),

		households: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "export",
			Name:      "households",
			Help:      "Households written by the last successful export",
		}),

		members: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "export",
			Name:      "members",
			Help:      "Members written by the last successful export",
		}),

		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: "export",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful export",
		}),
	}

	registry.MustRegister(
		em.runsTotal,
		em.runDuration,
		em.recordsTotal,
		em.decodeErrors,
		em.households,
		em.members,
		em.lastSuccess,
	)

	return em
}

// RecordRun records a finished run.
func (em *ExportMetrics) RecordRun(status string, duration time.Duration, households, members int) {
	em.runsTotal.WithLabelValues(status).Inc()
	em.runDuration.WithLabelValues(status).Observe(duration.Seconds())
	if status == StatusSuccess {
		em.households.Set(float64(households))
		em.members.Set(float64(members))
		em.lastSuccess.SetToCurrentTime()
	}
}
