package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Surfaces label which front end triggered an aggregation pass.
const (
	SurfaceHTTP = "http"
	SurfaceMCP  = "mcp"
	SurfaceCLI  = "cli"
)

var (
	once sync.Once

	// PassesTotal counts completed aggregation passes.
	PassesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "analytics",
		Name:      "passes_total",
		Help:      "Total number of aggregation passes, by surface.",
	}, []string{"surface"})

	// PassDurationSeconds measures one filter+aggregate+cluster+derive pass.
	PassDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "grievance",
		Subsystem: "analytics",
		Name:      "pass_duration_seconds",
		Help:      "Duration of an aggregation pass in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"surface"})

	// SnapshotReports is the size of the last loaded snapshot.
	SnapshotReports = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "grievance",
		Subsystem: "analytics",
		Name:      "snapshot_reports",
		Help:      "Number of reports in the most recently loaded snapshot, by source.",
	}, []string{"source"})

	// SnapshotErrorsTotal counts snapshot loads that failed outright.
	SnapshotErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grievance",
		Subsystem: "analytics",
		Name:      "snapshot_errors_total",
		Help:      "Total number of snapshot loads that returned no data, by source.",
	}, []string{"source"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			PassesTotal,
			PassDurationSeconds,
			SnapshotReports,
			SnapshotErrorsTotal,
		)
	})
}

// ObservePass records a finished pass.
func ObservePass(surface string, started time.Time) {
	PassesTotal.WithLabelValues(surface).Inc()
	PassDurationSeconds.WithLabelValues(surface).Observe(time.Since(started).Seconds())
}

// ObserveSnapshot records the outcome of a snapshot load.
func ObserveSnapshot(source string, reports int, err error) {
	if err != nil {
		SnapshotErrorsTotal.WithLabelValues(source).Inc()
		return
	}
	SnapshotReports.WithLabelValues(source).Set(float64(reports))
}
