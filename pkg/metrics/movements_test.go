package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMovementMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMovementMetrics(reg)

	m.ObserveMovement("IN", "success", 25*time.Millisecond)
	m.ObserveMovement("OUT", "business_rule", time.Millisecond)
	m.IncDelivered("stock_updated")
	m.IncDelivered("stock_updated")
	m.IncSkipped("low_stock_alert")

	if got := testutil.ToFloat64(m.movements.WithLabelValues("in", "success")); got != 1 {
		t.Fatalf("expected 1 successful IN movement, got %v", got)
	}
	if got := testutil.ToFloat64(m.movements.WithLabelValues("out", "business_rule")); got != 1 {
		t.Fatalf("expected 1 rejected OUT movement, got %v", got)
	}
	if got := testutil.ToFloat64(m.deliveries.WithLabelValues("stock_updated")); got != 2 {
		t.Fatalf("expected 2 deliveries, got %v", got)
	}
	if got := testutil.ToFloat64(m.skipped.WithLabelValues("low_stock_alert")); got != 1 {
		t.Fatalf("expected 1 skip, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewMovementMetrics(nil)
	m.ObserveMovement("IN", "success", time.Millisecond)
	m.IncDelivered("stock_updated")
	m.IncSkipped("stock_updated")

	var zero *MovementMetrics
	zero.ObserveMovement("OUT", "success", time.Millisecond)
}
