package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysisPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablens_analysis_passes_total",
		Help: "Number of completed dataset analysis passes",
	})

	analysisFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablens_analysis_failures_total",
		Help: "Number of analysis passes that failed",
	})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tablens_analysis_duration_seconds",
		Help:    "Wall-clock duration of analysis passes",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	validationPasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tablens_validation_passes_total",
		Help: "Number of completed validation runs",
	})

	issuesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablens_issues_detected_total",
		Help: "Issues detected, labeled by detector kind",
	}, []string{"kind"})

	qualityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tablens_quality_score",
		Help:    "Distribution of computed quality scores",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	fixesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tablens_fixes_applied_total",
		Help: "Fix operations applied, labeled by action",
	}, []string{"action"})
)

// RecordAnalysis records one completed analysis pass
func RecordAnalysis(duration time.Duration, score, contextualIssues, crossFieldIssues, outlierColumns int) {
	analysisPasses.Inc()
	analysisDuration.Observe(duration.Seconds())
	qualityScore.Observe(float64(score))
	issuesDetected.WithLabelValues("contextual").Add(float64(contextualIssues))
	issuesDetected.WithLabelValues("cross_field").Add(float64(crossFieldIssues))
	issuesDetected.WithLabelValues("outlier_columns").Add(float64(outlierColumns))
}

// RecordAnalysisFailure records a failed analysis pass
func RecordAnalysisFailure() {
	analysisFailures.Inc()
}

// RecordValidation records one completed validation run
func RecordValidation(resultCount int) {
	validationPasses.Inc()
	issuesDetected.WithLabelValues("rule_results").Add(float64(resultCount))
}

// RecordFix records one applied fix
func RecordFix(action string) {
	fixesApplied.WithLabelValues(action).Inc()
}
