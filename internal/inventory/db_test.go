package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	inventoryItems := `
CREATE TABLE IF NOT EXISTS inventory_items (
  product_id TEXT PRIMARY KEY,
  current_qty INTEGER NOT NULL DEFAULT 0,
  reserved_qty INTEGER NOT NULL DEFAULT 0,
  location TEXT NOT NULL DEFAULT '',
  updated_at DATETIME
);`
	stockTransactions := `
CREATE TABLE IF NOT EXISTS stock_transactions (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  reference_number TEXT,
  notes TEXT,
  occurred_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(inventoryItems).Error)
	require.NoError(t, db.Exec(stockTransactions).Error)
	return db
}

// gormTxRunner runs service transactions against the test database with
// real rollback semantics.
type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

type stubProductGate struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductGate) FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok || !product.IsActive {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func mustSeedBalance(t *testing.T, db *gorm.DB, productID uuid.UUID, current, reserved int) {
	t.Helper()
	item := &models.InventoryItem{
		ProductID:   productID,
		CurrentQty:  current,
		ReservedQty: reserved,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("seed balance: %v", err)
	}
}
