package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/realtime"
	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

// MovementInput is the single entry point payload for stock mutations.
// Quantity is the movement magnitude; for ADJUSTMENT it is the absolute
// target balance, not a delta.
type MovementInput struct {
	ProductID       uuid.UUID
	Kind            enums.MovementKind
	Quantity        int
	ReferenceNumber *string
	Notes           *string
}

// ApplyMovement runs one stock mutation: locked balance read, arithmetic by
// kind, invariant checks, balance write plus one ledger entry in the same
// transaction, then post-commit fan-out. Success is decided solely by the
// commit; fan-out failures are logged and dropped.
func (s *service) ApplyMovement(ctx context.Context, input MovementInput) (*MovementResult, error) {
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement kind %q", input.Kind))
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindActiveProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found or inactive")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	started := time.Now()
	var result *MovementResult

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ApplyLockTimeout(ctx, s.lockTimeout); err != nil {
			return err
		}

		item, err := txRepo.GetBalanceForUpdate(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock balance not found")
			}
			return err
		}

		previous := item.CurrentQty
		var delta int
		switch input.Kind {
		case enums.MovementIn:
			delta = input.Quantity
		case enums.MovementOut:
			if input.Quantity > previous {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient stock")
			}
			delta = -input.Quantity
		case enums.MovementAdjustment:
			delta = input.Quantity - previous
		}

		newQty := previous + delta
		if newQty < 0 {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "movement would drive stock negative")
		}
		if item.ReservedQty > newQty {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "movement would leave reserved stock uncovered")
		}

		if delta == 0 {
			// adjustment to the current balance: nothing to write
			result = &MovementResult{
				ProductID:      input.ProductID,
				Kind:           input.Kind,
				PreviousStock:  previous,
				CurrentStock:   previous,
				AvailableStock: item.AvailableQty(),
				OccurredAt:     time.Now().UTC(),
			}
			return nil
		}

		item.CurrentQty = newQty
		if err := txRepo.SaveBalance(ctx, item); err != nil {
			return err
		}

		entry := &models.StockTransaction{
			ID:              uuid.New(),
			ProductID:       input.ProductID,
			Kind:            input.Kind,
			Quantity:        abs(delta),
			ReferenceNumber: input.ReferenceNumber,
			Notes:           input.Notes,
			OccurredAt:      time.Now().UTC(),
		}
		if _, err := s.ledger.WithTx(tx).Append(ctx, entry); err != nil {
			return err
		}

		result = &MovementResult{
			EntryID:        &entry.ID,
			ProductID:      input.ProductID,
			Kind:           input.Kind,
			Quantity:       entry.Quantity,
			PreviousStock:  previous,
			CurrentStock:   newQty,
			AvailableStock: item.AvailableQty(),
			OccurredAt:     entry.OccurredAt,
		}
		return nil
	})

	elapsed := time.Since(started)
	if txErr != nil {
		err := s.classify(txErr, "apply movement")
		s.metrics.ObserveMovement(string(input.Kind), outcomeFor(err), elapsed)
		return nil, err
	}
	s.metrics.ObserveMovement(string(input.Kind), "committed", elapsed)

	if s.events != nil && result.EntryID != nil {
		s.events.MovementCommitted(ctx, realtime.Movement{
			ProductID:     result.ProductID,
			Kind:          result.Kind,
			Quantity:      result.Quantity,
			PreviousStock: result.PreviousStock,
			CurrentStock:  result.CurrentStock,
			MinimumStock:  product.MinimumStock,
			At:            result.OccurredAt,
		})
	}
	return result, nil
}

func outcomeFor(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeContention:
		return "contention"
	case pkgerrors.CodeBusinessRule, pkgerrors.CodeValidation, pkgerrors.CodeNotFound:
		return "rejected"
	default:
		return "error"
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
