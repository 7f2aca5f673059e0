package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCartMetricsRegisters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.IncOperation("add_item", "guest")
	m.IncFailure("add_item", "NETWORK_FAILURE")
	m.IncIntegritySkip()
	m.ObserveDuration("add_item", 25*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestNilSafeWithoutRegisterer(t *testing.T) {
	m := NewCartMetrics(nil)
	m.IncOperation("add_item", "")
	m.IncFailure("", "")
	m.IncIntegritySkip()
	m.ObserveDuration("refresh", time.Second)

	var empty *CartMetrics
	empty.IncOperation("noop", "guest")
}
