package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.Mutation("addFloor")
	m.MutationError("addFloor", "validation")
	m.HistoryStep("undo", true)
	m.CacheEvent(CacheHit)
	m.Pick(false)
	m.Request("GET", "200")
}

func TestCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Mutation("addFloor")
	m.Mutation("addFloor")
	m.HistoryStep("undo", false)
	m.CacheEvent(CacheExpired)

	if got := testutil.ToFloat64(m.Mutations.WithLabelValues("addFloor")); got != 2 {
		t.Errorf("Expected 2 addFloor mutations, got %f", got)
	}
	if got := testutil.ToFloat64(m.History.WithLabelValues("undo", "noop")); got != 1 {
		t.Errorf("Expected 1 noop undo, got %f", got)
	}
	if got := testutil.ToFloat64(m.Cache.WithLabelValues(CacheExpired)); got != 1 {
		t.Errorf("Expected 1 expired event, got %f", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Error("Registry should expose the collectors")
	}
}
