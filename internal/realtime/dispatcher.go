package realtime

import (
	"context"
	"time"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
)

// Dispatcher routes committed movements to the local hub and, when
// configured, to the Redis bridge and the external Pub/Sub sink. All
// delivery is best effort; the commit already happened.
type Dispatcher struct {
	hub    *Hub
	bridge *Bridge
	sink   *Sink
	logg   *logger.Logger
}

// NewDispatcher wires the fan-out targets. bridge and sink may be nil.
func NewDispatcher(hub *Hub, bridge *Bridge, sink *Sink, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{hub: hub, bridge: bridge, sink: sink, logg: logg}
}

// MovementCommitted fans out the events a committed movement implies:
// stock_updated always; out_of_stock_alert when the balance hit zero;
// low_stock_alert when it is positive but at or under the minimum.
func (d *Dispatcher) MovementCommitted(ctx context.Context, m Movement) {
	if d == nil {
		return
	}

	at := m.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	d.publish(ctx,
		[]string{GroupAll, ProductGroup(m.ProductID), GroupDashboard},
		Event{
			Type: enums.EventStockUpdated,
			At:   at,
			Payload: StockUpdatedPayload{
				ProductID:     m.ProductID,
				CurrentStock:  m.CurrentStock,
				PreviousStock: m.PreviousStock,
				Kind:          m.Kind,
				Quantity:      m.Quantity,
			},
		})

	switch {
	case m.CurrentStock == 0:
		d.publish(ctx,
			[]string{GroupAll},
			Event{
				Type:    enums.EventOutOfStockAlert,
				At:      at,
				Payload: OutOfStockPayload{ProductID: m.ProductID},
			})
	case m.CurrentStock <= m.MinimumStock:
		d.publish(ctx,
			[]string{RoleGroup("admin"), RoleGroup("manager")},
			Event{
				Type: enums.EventLowStockAlert,
				At:   at,
				Payload: LowStockPayload{
					ProductID:    m.ProductID,
					CurrentStock: m.CurrentStock,
					MinimumStock: m.MinimumStock,
				},
			})
	}
}

func (d *Dispatcher) publish(ctx context.Context, groups []string, event Event) {
	if d.hub != nil {
		d.hub.Publish(ctx, groups, event)
	}
	if d.bridge != nil {
		d.bridge.Forward(ctx, groups, event)
	}
	if d.sink != nil {
		d.sink.Forward(ctx, event)
	}
}
