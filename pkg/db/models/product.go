package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

// Product is the canonical catalog entry tracked by the inventory core.
// Products are soft-deleted: IsActive flips to false, the row stays.
type Product struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CategoryID   uuid.UUID         `gorm:"column:category_id;type:uuid;not null" json:"category_id"`
	SKU          string            `gorm:"column:sku;not null;uniqueIndex" json:"sku"`
	Barcode      string            `gorm:"column:barcode;not null;uniqueIndex" json:"barcode"`
	Name         string            `gorm:"column:name;not null" json:"name"`
	Description  *string           `gorm:"column:description" json:"description,omitempty"`
	Unit         enums.ProductUnit `gorm:"column:unit;not null" json:"unit"`
	Price        decimal.Decimal   `gorm:"column:price;type:numeric(14,2);not null" json:"price"`
	Cost         decimal.Decimal   `gorm:"column:cost;type:numeric(14,2);not null" json:"cost"`
	Tags         pq.StringArray    `gorm:"column:tags;type:text[];not null;default:'{}'" json:"tags"`
	MinimumStock int               `gorm:"column:minimum_stock;not null;default:0" json:"minimum_stock"`
	MaximumStock int               `gorm:"column:maximum_stock;not null;default:0" json:"maximum_stock"`
	IsActive     bool              `gorm:"column:is_active;not null;default:true" json:"is_active"`
	Category     *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Balance      *InventoryItem    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"balance,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
