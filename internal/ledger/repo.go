package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

// Repository defines persistence for the ledger. The table is append-only:
// there is deliberately no update or delete surface.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Append(ctx context.Context, entry *models.StockTransaction) (*models.StockTransaction, error)
	Query(ctx context.Context, query Query) (*EntryList, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error)
}

// Query filters a ledger read. Nil fields are not applied.
type Query struct {
	ProductID  *uuid.UUID
	Kind       *enums.MovementKind
	From       *time.Time
	To         *time.Time
	Pagination pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Append inserts one ledger entry. Callers inside the stock mutator join its
// transaction through WithTx.
func (r *repository) Append(ctx context.Context, entry *models.StockTransaction) (*models.StockTransaction, error) {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Query returns one cursor page of entries, newest first.
func (r *repository) Query(ctx context.Context, query Query) (*EntryList, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Model(&models.StockTransaction{})
	if query.ProductID != nil {
		qb = qb.Where("product_id = ?", *query.ProductID)
	}
	if query.Kind != nil {
		qb = qb.Where("kind = ?", *query.Kind)
	}
	if query.From != nil {
		qb = qb.Where("occurred_at >= ?", *query.From)
	}
	if query.To != nil {
		qb = qb.Where("occurred_at < ?", *query.To)
	}
	if cursor != nil {
		qb = qb.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.StockTransaction
	err = qb.
		Order("created_at DESC, id DESC").
		Limit(limitWithBuffer).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	result := &EntryList{}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	result.Entries = make([]EntryDTO, len(rows))
	for i := range rows {
		result.Entries[i] = *NewEntryDTO(&rows[i])
	}
	return result, nil
}

// ListByProduct returns every entry for a product, oldest first. Reports use
// it for replay-style aggregation.
func (r *repository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.StockTransaction, error) {
	var rows []models.StockTransaction
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&rows).
		Error
	return rows, err
}
