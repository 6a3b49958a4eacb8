package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a balance repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ApplyLockTimeout bounds how long the transaction waits for a row lock.
// lock_timeout is a Postgres setting; other dialects run without it.
func (r *repository) ApplyLockTimeout(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 || r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.WithContext(ctx).
		Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())).
		Error
}

// GetBalance reads the balance row without locking.
func (r *repository) GetBalance(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// GetBalanceForUpdate reads the balance row under FOR UPDATE so concurrent
// movements on the same product serialize. Dialects without row locks
// (sqlite in tests) fall back to a plain read.
func (r *repository) GetBalanceForUpdate(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	qb := r.db.WithContext(ctx)
	if qb.Dialector.Name() == "postgres" {
		qb = qb.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var item models.InventoryItem
	if err := qb.First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// SaveBalance persists the mutated balance row.
func (r *repository) SaveBalance(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}
