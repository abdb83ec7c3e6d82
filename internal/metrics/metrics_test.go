package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"SearchesTotal", SearchesTotal},
		{"SearchResults", SearchResults},
		{"WorkflowsTotal", WorkflowsTotal},
		{"CacheLookupsTotal", CacheLookupsTotal},
		{"CacheInvalidationsTotal", CacheInvalidationsTotal},
		{"SpotifyRequestsTotal", SpotifyRequestsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestWorkflowCounter(t *testing.T) {
	before := counterValue(t, WorkflowsTotal.WithLabelValues("duplicate_playlist", "success"))
	WorkflowsTotal.WithLabelValues("duplicate_playlist", Outcome(nil)).Inc()
	after := counterValue(t, WorkflowsTotal.WithLabelValues("duplicate_playlist", "success"))

	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
	if Outcome(errors.New("boom")) != "error" {
		t.Fatalf("expected error outcome")
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
