package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MovementMetrics records stock mutation and fan-out outcomes.
type MovementMetrics struct {
	duration   *prometheus.HistogramVec
	movements  *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	skipped    *prometheus.CounterVec
}

// NewMovementMetrics registers the inventory metrics on the provided registerer.
func NewMovementMetrics(reg prometheus.Registerer) *MovementMetrics {
	if reg == nil {
		return &MovementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_movement_duration_seconds",
		Help:    "Duration of stock movement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Stock movements by kind and outcome.",
	}, []string{"kind", "outcome"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_events_delivered_total",
		Help: "Events delivered to live subscribers.",
	}, []string{"event"})
	skipped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_events_skipped_total",
		Help: "Events dropped because a subscriber was full or gone.",
	}, []string{"event"})
	reg.MustRegister(duration, movements, deliveries, skipped)
	return &MovementMetrics{
		duration:   duration,
		movements:  movements,
		deliveries: deliveries,
		skipped:    skipped,
	}
}

// ObserveMovement records duration and outcome for a movement by kind.
func (m *MovementMetrics) ObserveMovement(kind string, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if m.duration != nil {
		m.duration.WithLabelValues(normalizeLabel(kind)).Observe(elapsed.Seconds())
	}
	if m.movements != nil {
		m.movements.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
	}
}

// IncDelivered increments the delivered counter for the named event.
func (m *MovementMetrics) IncDelivered(event string) {
	if m == nil || m.deliveries == nil {
		return
	}
	m.deliveries.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncSkipped increments the skipped counter for the named event.
func (m *MovementMetrics) IncSkipped(event string) {
	if m == nil || m.skipped == nil {
		return
	}
	m.skipped.WithLabelValues(normalizeLabel(event)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
