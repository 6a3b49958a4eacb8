package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockRow is one product's stock position against its threshold.
type StockRow struct {
	ProductID    uuid.UUID `gorm:"column:product_id"`
	Name         string    `gorm:"column:name"`
	SKU          string    `gorm:"column:sku"`
	CategoryName string    `gorm:"column:category_name"`
	CurrentQty   int       `gorm:"column:current_qty"`
	MinimumStock int       `gorm:"column:minimum_stock"`
}

// CostRow carries what valuation and rollups need. Cost math happens in the
// service so the numbers stay exact decimals.
type CostRow struct {
	ProductID    uuid.UUID       `gorm:"column:product_id"`
	Name         string          `gorm:"column:name"`
	SKU          string          `gorm:"column:sku"`
	CategoryID   uuid.UUID       `gorm:"column:category_id"`
	CategoryName string          `gorm:"column:category_name"`
	Cost         decimal.Decimal `gorm:"column:cost"`
	CurrentQty   int             `gorm:"column:current_qty"`
}

// MoverRow aggregates ledger traffic for one product over a window.
type MoverRow struct {
	ProductID  uuid.UUID `gorm:"column:product_id"`
	Name       string    `gorm:"column:name"`
	SKU        string    `gorm:"column:sku"`
	Movements  int       `gorm:"column:movements"`
	UnitsMoved int       `gorm:"column:units_moved"`
}

// Repository exposes the read queries behind the reporting endpoints. All of
// them read committed state directly, nothing is cached.
type Repository interface {
	LowStock(ctx context.Context, limit int) ([]StockRow, error)
	OutOfStock(ctx context.Context, limit int) ([]StockRow, error)
	CostRows(ctx context.Context) ([]CostRow, error)
	TopMovers(ctx context.Context, from, to time.Time, limit int) ([]MoverRow, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) stockBase(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select("products.id AS product_id, products.name, products.sku, categories.name AS category_name, inventory_items.current_qty, products.minimum_stock").
		Joins("JOIN inventory_items ON inventory_items.product_id = products.id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ?", true)
}

// LowStock lists active products at or below their minimum threshold but not
// yet empty, the most depleted first.
func (r *repository) LowStock(ctx context.Context, limit int) ([]StockRow, error) {
	var rows []StockRow
	err := r.stockBase(ctx).
		Where("inventory_items.current_qty > 0").
		Where("inventory_items.current_qty <= products.minimum_stock").
		Order("inventory_items.current_qty ASC, products.name ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

// OutOfStock lists active products whose balance has hit zero.
func (r *repository) OutOfStock(ctx context.Context, limit int) ([]StockRow, error) {
	var rows []StockRow
	err := r.stockBase(ctx).
		Where("inventory_items.current_qty = 0").
		Order("products.name ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}

// CostRows returns every active product's cost and on-hand quantity with its
// category attached.
func (r *repository) CostRows(ctx context.Context) ([]CostRow, error) {
	var rows []CostRow
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.id AS product_id, products.name, products.sku, products.category_id, categories.name AS category_name, products.cost, inventory_items.current_qty").
		Joins("JOIN inventory_items ON inventory_items.product_id = products.id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.is_active = ?", true).
		Order("products.name ASC").
		Scan(&rows).
		Error
	return rows, err
}

// TopMovers ranks products by total units moved in [from, to), counting every
// ledger entry regardless of direction.
func (r *repository) TopMovers(ctx context.Context, from, to time.Time, limit int) ([]MoverRow, error) {
	var rows []MoverRow
	err := r.db.WithContext(ctx).
		Table("stock_transactions").
		Select("stock_transactions.product_id, products.name, products.sku, COUNT(*) AS movements, SUM(stock_transactions.quantity) AS units_moved").
		Joins("JOIN products ON products.id = stock_transactions.product_id").
		Where("stock_transactions.occurred_at >= ? AND stock_transactions.occurred_at < ?", from, to).
		Group("stock_transactions.product_id, products.name, products.sku").
		Order("units_moved DESC, products.name ASC").
		Limit(limit).
		Scan(&rows).
		Error
	return rows, err
}
