package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is the balance row: current and reserved stock per product.
// Invariants enforced by internal/inventory on every commit:
// current_qty >= 0, reserved_qty >= 0, reserved_qty <= current_qty.
// Available stock is always derived, never stored.
type InventoryItem struct {
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	CurrentQty  int       `gorm:"column:current_qty;not null;default:0" json:"current_qty"`
	ReservedQty int       `gorm:"column:reserved_qty;not null;default:0" json:"reserved_qty"`
	Location    string    `gorm:"column:location;not null;default:''" json:"location"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// AvailableQty returns current minus reserved stock.
func (i InventoryItem) AvailableQty() int {
	return i.CurrentQty - i.ReservedQty
}
