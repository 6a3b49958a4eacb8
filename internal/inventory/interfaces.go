package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/realtime"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

// Repository defines persistence operations for balance rows. All writes go
// through locked reads inside the mutator's transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ApplyLockTimeout(ctx context.Context, timeout time.Duration) error
	GetBalance(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error)
	GetBalanceForUpdate(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error)
	SaveBalance(ctx context.Context, item *models.InventoryItem) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// productGate is the narrow catalog read the mutator consults before a
// movement. The catalog repository satisfies it.
type productGate interface {
	FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// eventSink receives committed movements for fan-out. The realtime
// dispatcher satisfies it.
type eventSink interface {
	MovementCommitted(ctx context.Context, movement realtime.Movement)
}
