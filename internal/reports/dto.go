package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is one row of the low-stock and out-of-stock reports.
type StockItem struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	CategoryName string    `json:"category_name"`
	CurrentStock int       `json:"current_stock"`
	MinimumStock int       `json:"minimum_stock"`
}

// ValuationItem is one product's contribution to the inventory valuation.
type ValuationItem struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	CurrentStock int             `json:"current_stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// ValuationReport is the full valuation: per-product lines plus the grand
// total at cost.
type ValuationReport struct {
	Items      []ValuationItem `json:"items"`
	TotalValue decimal.Decimal `json:"total_value"`
	TotalUnits int             `json:"total_units"`
}

// CategoryRollup summarizes one category's active products.
type CategoryRollup struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	ProductCount int             `json:"product_count"`
	TotalUnits   int             `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// TopMover is one product ranked by ledger volume over the report window.
type TopMover struct {
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Movements  int       `json:"movements"`
	UnitsMoved int       `json:"units_moved"`
}

// TopMoversInput selects the report window. A zero window defaults to the
// trailing thirty days ending now.
type TopMoversInput struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Limit int       `json:"limit"`
}

func newStockItem(row StockRow) StockItem {
	return StockItem{
		ProductID:    row.ProductID,
		Name:         row.Name,
		SKU:          row.SKU,
		CategoryName: row.CategoryName,
		CurrentStock: row.CurrentQty,
		MinimumStock: row.MinimumStock,
	}
}
