// Package telemetry exposes the module's Prometheus self-metrics. Counters
// register on the default registry; embedding processes serve them through
// the standard promhttp handler.
package telemetry

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ManifestsGenerated counts manifest sets produced, per component type.
	ManifestsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecom_deploy_manifests_generated_total",
		Help: "Number of manifest sets generated, by component type",
	}, []string{"component"})

	// DocumentsSkipped counts malformed documents dropped during analysis.
	DocumentsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecom_deploy_documents_skipped_total",
		Help: "Number of manifest documents skipped as malformed, by analyzer",
	}, []string{"analyzer"})

	// AnalysesTotal counts completed analysis runs.
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "telecom_deploy_analyses_total",
		Help: "Number of analysis runs, by kind",
	}, []string{"kind"})
)

// LogCounters writes every non-zero counter to the debug log. Short-lived
// CLI invocations have no scrape window, so this is how the numbers get out.
func LogCounters() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		slog.Debug("failed to gather metrics", "error", err)
		return
	}

	for _, family := range families {
		for _, metric := range family.GetMetric() {
			counter := metric.GetCounter()
			if counter == nil || counter.GetValue() == 0 {
				continue
			}
			attrs := []any{"metric", family.GetName(), "value", counter.GetValue()}
			for _, label := range metric.GetLabel() {
				attrs = append(attrs, label.GetName(), label.GetValue())
			}
			slog.Debug("counter", attrs...)
		}
	}
}
