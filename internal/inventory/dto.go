package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// BalanceDTO is the balance payload returned to clients. AvailableQty is
// always derived from the stored counts.
type BalanceDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	CurrentQty   int       `json:"current_qty"`
	ReservedQty  int       `json:"reserved_qty"`
	AvailableQty int       `json:"available_qty"`
	Location     string    `json:"location"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewBalanceDTO builds a DTO from the persisted model.
func NewBalanceDTO(item *models.InventoryItem) *BalanceDTO {
	return &BalanceDTO{
		ProductID:    item.ProductID,
		CurrentQty:   item.CurrentQty,
		ReservedQty:  item.ReservedQty,
		AvailableQty: item.AvailableQty(),
		Location:     item.Location,
		UpdatedAt:    item.UpdatedAt,
	}
}

// MovementResult describes one committed (or no-op) movement.
type MovementResult struct {
	EntryID        *uuid.UUID         `json:"entry_id,omitempty"`
	ProductID      uuid.UUID          `json:"product_id"`
	Kind           enums.MovementKind `json:"kind"`
	Quantity       int                `json:"quantity"`
	PreviousStock  int                `json:"previous_stock"`
	CurrentStock   int                `json:"current_stock"`
	AvailableStock int                `json:"available_stock"`
	OccurredAt     time.Time          `json:"occurred_at"`
}
