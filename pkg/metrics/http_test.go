package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestRecordsSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncInFlight()
	m.ObserveRequest("/api/v1/inventory-records", "GET", 200, 30*time.Millisecond)
	m.ObserveRequest("", "POST", 500, 5*time.Millisecond)
	m.DecInFlight()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	total, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("http_requests_total not registered")
	}
	if len(total.GetMetric()) != 2 {
		t.Fatalf("expected 2 counter series, got %d", len(total.GetMetric()))
	}

	foundUnknown := false
	for _, metric := range total.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "route" && label.GetValue() == "unknown" {
				foundUnknown = true
			}
		}
	}
	if !foundUnknown {
		t.Fatal("empty route should be normalized to unknown")
	}

	if _, ok := byName["http_request_duration_seconds"]; !ok {
		t.Fatal("duration histogram not registered")
	}
}

func TestNilReceiverAndRegistererAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("/x", "GET", 200, time.Millisecond)
	m.IncInFlight()
	m.DecInFlight()

	unregistered := NewHTTPMetrics(nil)
	unregistered.ObserveRequest("/x", "GET", 200, time.Millisecond)
}
