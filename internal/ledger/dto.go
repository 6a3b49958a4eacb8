package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// EntryDTO is the ledger entry payload returned to clients.
type EntryDTO struct {
	ID              uuid.UUID          `json:"id"`
	ProductID       uuid.UUID          `json:"product_id"`
	Kind            enums.MovementKind `json:"kind"`
	Quantity        int                `json:"quantity"`
	ReferenceNumber *string            `json:"reference_number,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
	OccurredAt      time.Time          `json:"occurred_at"`
	CreatedAt       time.Time          `json:"created_at"`
}

// EntryList is one cursor page of ledger entries.
type EntryList struct {
	Entries    []EntryDTO `json:"entries"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewEntryDTO builds a DTO from the persisted model.
func NewEntryDTO(entry *models.StockTransaction) *EntryDTO {
	return &EntryDTO{
		ID:              entry.ID,
		ProductID:       entry.ProductID,
		Kind:            entry.Kind,
		Quantity:        entry.Quantity,
		ReferenceNumber: entry.ReferenceNumber,
		Notes:           entry.Notes,
		OccurredAt:      entry.OccurredAt,
		CreatedAt:       entry.CreatedAt,
	}
}
