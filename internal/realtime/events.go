package realtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// Group names understood by the hub. Product and role groups are derived.
const (
	GroupAll       = "all"
	GroupDashboard = "dashboard"
)

// ProductGroup names the per-product subscriber group.
func ProductGroup(productID uuid.UUID) string {
	return "product:" + productID.String()
}

// RoleGroup names the subscriber group for a caller role.
func RoleGroup(role string) string {
	return "role:" + role
}

// Event is the envelope pushed to live subscribers.
type Event struct {
	Type    enums.StreamEventType `json:"type"`
	Payload any                   `json:"payload"`
	At      time.Time             `json:"at"`
}

// StockUpdatedPayload describes every committed balance change.
type StockUpdatedPayload struct {
	ProductID     uuid.UUID          `json:"product_id"`
	CurrentStock  int                `json:"current_stock"`
	PreviousStock int                `json:"previous_stock"`
	Kind          enums.MovementKind `json:"kind"`
	Quantity      int                `json:"quantity"`
}

// LowStockPayload is sent when a commit leaves stock at or under the minimum.
type LowStockPayload struct {
	ProductID    uuid.UUID `json:"product_id"`
	CurrentStock int       `json:"current_stock"`
	MinimumStock int       `json:"minimum_stock"`
}

// OutOfStockPayload is sent when a commit empties the balance.
type OutOfStockPayload struct {
	ProductID uuid.UUID `json:"product_id"`
}

// Movement is the committed mutation handed to the dispatcher by the stock
// mutator. Quantity is the unsigned magnitude recorded in the ledger.
type Movement struct {
	ProductID     uuid.UUID
	Kind          enums.MovementKind
	Quantity      int
	PreviousStock int
	CurrentStock  int
	MinimumStock  int
	At            time.Time
}
