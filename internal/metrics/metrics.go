// Package metrics exposes Prometheus counters and histograms for the
// resolver and installer, in the promauto-registered style the corpus
// uses for its own subsystem metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resolveIterations = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "pkgcore",
		Subsystem: "resolver",
		Name:      "iterations",
		Help:      "Number of fixpoint iterations a resolution took",
		Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	resolveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkgcore",
		Subsystem: "resolver",
		Name:      "outcomes_total",
		Help:      "Total resolutions by outcome",
	}, []string{"outcome"}) // "solved", "stalled"

	installDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pkgcore",
		Subsystem: "installer",
		Name:      "duration_seconds",
		Help:      "Time spent executing a single install or uninstall action",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action", "status"}) // action: install/uninstall, status: ok/error

	installBytes = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pkgcore",
		Subsystem: "installer",
		Name:      "bytes_written_total",
		Help:      "Total bytes written across all installs",
	})

	planActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pkgcore",
		Subsystem: "planner",
		Name:      "actions_total",
		Help:      "Total planned actions by kind",
	}, []string{"kind"})
)

// RecordResolve records one Resolve call's iteration count and outcome.
func RecordResolve(iterations int, stalled bool) {
	resolveIterations.Observe(float64(iterations))
	outcome := "solved"
	if stalled {
		outcome = "stalled"
	}
	resolveOutcomes.WithLabelValues(outcome).Inc()
}

// RecordInstall records one install action's duration and outcome.
func RecordInstall(durationSec float64, err error) {
	installDuration.WithLabelValues("install", statusOf(err)).Observe(durationSec)
}

// RecordUninstall records one uninstall action's duration and outcome.
func RecordUninstall(durationSec float64, err error) {
	installDuration.WithLabelValues("uninstall", statusOf(err)).Observe(durationSec)
}

// RecordBytesWritten adds n to the running total of bytes written by
// the installer.
func RecordBytesWritten(n int64) {
	installBytes.Add(float64(n))
}

// RecordPlanAction increments the counter for one planned action kind
// (e.g. "InstallUpdate", "Uninstall", "Conflict", "Failure").
func RecordPlanAction(kind string) {
	planActions.WithLabelValues(kind).Inc()
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
