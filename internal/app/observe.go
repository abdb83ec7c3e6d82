// Package app holds the helpers shared by the per-aggregate services in its
// subpackages.
package app

import (
	"context"

	"tandabase/internal/catalog"
	"tandabase/internal/metrics"
	"tandabase/shared/go/logging"
)

// RecordSearch logs and counts the outcome of a search. Short-circuited
// plans are logged with their reason so an empty result can be explained.
func RecordSearch(ctx context.Context, entity string, plan catalog.Plan, results int) {
	logger := logging.WithContext(ctx)
	switch {
	case plan.Empty:
		metrics.SearchesTotal.WithLabelValues(entity, plan.Reason).Inc()
		logger.Debug().
			Str("entity", entity).
			Str("reason", plan.Reason).
			Msg("search short-circuited")
	case results == 0:
		metrics.SearchesTotal.WithLabelValues(entity, "empty").Inc()
	default:
		metrics.SearchesTotal.WithLabelValues(entity, "results").Inc()
	}
	metrics.SearchResults.WithLabelValues(entity).Observe(float64(results))
}

// RecordWorkflow counts a multi-step mutation and logs failures.
func RecordWorkflow(ctx context.Context, name string, err error) {
	metrics.WorkflowsTotal.WithLabelValues(name, metrics.Outcome(err)).Inc()
	if err != nil {
		logging.WithContext(ctx).Warn().Err(err).Str("workflow", name).Msg("workflow rolled back")
	}
}
