package reports

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:reports_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT NOT NULL,
  sku TEXT NOT NULL UNIQUE,
  barcode TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  unit TEXT NOT NULL,
  price TEXT NOT NULL,
  cost TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '{}',
  minimum_stock INTEGER NOT NULL DEFAULT 0,
  maximum_stock INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS inventory_items (
  product_id TEXT PRIMARY KEY,
  current_qty INTEGER NOT NULL DEFAULT 0,
  reserved_qty INTEGER NOT NULL DEFAULT 0,
  location TEXT NOT NULL DEFAULT '',
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS stock_transactions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  reference_number TEXT,
  notes TEXT,
  occurred_at DATETIME NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type seedProductInput struct {
	name       string
	cost       decimal.Decimal
	currentQty int
	minimum    int
	active     bool
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{ID: uuid.New(), Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return category
}

func seedProduct(t *testing.T, db *gorm.DB, categoryID uuid.UUID, in seedProductInput) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:           uuid.New(),
		CategoryID:   categoryID,
		SKU:          fmt.Sprintf("SKU-%s", uuid.NewString()),
		Barcode:      fmt.Sprintf("BC-%s", uuid.NewString()),
		Name:         in.name,
		Unit:         enums.ProductUnitPiece,
		Price:        in.cost.Mul(decimal.NewFromInt(2)),
		Cost:         in.cost,
		MinimumStock: in.minimum,
		MaximumStock: in.minimum + 100,
		IsActive:     in.active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	item := &models.InventoryItem{ProductID: product.ID, CurrentQty: in.currentQty}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create balance: %v", err)
	}
	return product
}

func seedLedgerEntry(t *testing.T, db *gorm.DB, productID uuid.UUID, kind enums.MovementKind, qty int, at time.Time) {
	t.Helper()

	entry := &models.StockTransaction{
		ID:         uuid.New(),
		ProductID:  productID,
		Kind:       kind,
		Quantity:   qty,
		OccurredAt: at,
		CreatedAt:  at,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}
}
