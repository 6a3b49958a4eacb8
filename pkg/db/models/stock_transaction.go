package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// StockTransaction is one immutable ledger entry. Quantity is the unsigned
// magnitude of the balance delta; the sign is implied by Kind. Rows are never
// updated or deleted; corrections are recorded as new ADJUSTMENT entries.
type StockTransaction struct {
	ID              uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID       uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index" json:"product_id"`
	Kind            enums.MovementKind `gorm:"column:kind;not null" json:"kind"`
	Quantity        int                `gorm:"column:quantity;not null" json:"quantity"`
	ReferenceNumber *string            `gorm:"column:reference_number" json:"reference_number,omitempty"`
	Notes           *string            `gorm:"column:notes" json:"notes,omitempty"`
	OccurredAt      time.Time          `gorm:"column:occurred_at;not null" json:"occurred_at"`
	CreatedAt       time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
