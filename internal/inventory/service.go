package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/internal/ledger"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/metrics"
)

const defaultLockTimeout = 3 * time.Second

// Service exposes balance reads, reservations, and the stock mutator.
type Service interface {
	Get(ctx context.Context, productID uuid.UUID) (*BalanceDTO, error)
	Reserve(ctx context.Context, productID uuid.UUID, qty int) (*BalanceDTO, error)
	Release(ctx context.Context, productID uuid.UUID, qty int) (*BalanceDTO, error)
	SetLocation(ctx context.Context, productID uuid.UUID, location string) (*BalanceDTO, error)
	ApplyMovement(ctx context.Context, input MovementInput) (*MovementResult, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	products    productGate
	ledger      ledger.Repository
	events      eventSink
	metrics     *metrics.MovementMetrics
	logg        *logger.Logger
	lockTimeout time.Duration
}

// NewService constructs the inventory service. events and metrics may be nil.
func NewService(
	repo Repository,
	tx txRunner,
	products productGate,
	ledgerRepo ledger.Repository,
	events eventSink,
	m *metrics.MovementMetrics,
	logg *logger.Logger,
	lockTimeout time.Duration,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product gate required")
	}
	if ledgerRepo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &service{
		repo:        repo,
		tx:          tx,
		products:    products,
		ledger:      ledgerRepo,
		events:      events,
		metrics:     m,
		logg:        logg,
		lockTimeout: lockTimeout,
	}, nil
}

// Get returns the balance with its derived available quantity.
func (s *service) Get(ctx context.Context, productID uuid.UUID) (*BalanceDTO, error) {
	item, err := s.repo.GetBalance(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock balance not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
	}
	return NewBalanceDTO(item), nil
}

// Reserve holds qty units of available stock against future consumption.
func (s *service) Reserve(ctx context.Context, productID uuid.UUID, qty int) (*BalanceDTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var dto *BalanceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ApplyLockTimeout(ctx, s.lockTimeout); err != nil {
			return err
		}

		item, err := txRepo.GetBalanceForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock balance not found")
			}
			return err
		}

		if qty > item.AvailableQty() {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "insufficient available stock")
		}

		item.ReservedQty += qty
		if err := txRepo.SaveBalance(ctx, item); err != nil {
			return err
		}
		dto = NewBalanceDTO(item)
		return nil
	})
	if err != nil {
		return nil, s.classify(err, "reserve stock")
	}
	return dto, nil
}

// Release returns qty reserved units back to available stock.
func (s *service) Release(ctx context.Context, productID uuid.UUID, qty int) (*BalanceDTO, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var dto *BalanceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ApplyLockTimeout(ctx, s.lockTimeout); err != nil {
			return err
		}

		item, err := txRepo.GetBalanceForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock balance not found")
			}
			return err
		}

		if qty > item.ReservedQty {
			return pkgerrors.New(pkgerrors.CodeBusinessRule, "release exceeds reserved stock")
		}

		item.ReservedQty -= qty
		if err := txRepo.SaveBalance(ctx, item); err != nil {
			return err
		}
		dto = NewBalanceDTO(item)
		return nil
	})
	if err != nil {
		return nil, s.classify(err, "release stock")
	}
	return dto, nil
}

// SetLocation updates the storage location tag on the balance row. The
// write goes through the same locked read as Reserve so a movement
// committing in between cannot be overwritten by a stale snapshot.
func (s *service) SetLocation(ctx context.Context, productID uuid.UUID, location string) (*BalanceDTO, error) {
	var dto *BalanceDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.ApplyLockTimeout(ctx, s.lockTimeout); err != nil {
			return err
		}

		item, err := txRepo.GetBalanceForUpdate(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "stock balance not found")
			}
			return err
		}

		item.Location = strings.TrimSpace(location)
		if err := txRepo.SaveBalance(ctx, item); err != nil {
			return err
		}
		dto = NewBalanceDTO(item)
		return nil
	})
	if err != nil {
		return nil, s.classify(err, "set location")
	}
	return dto, nil
}

// classify maps raw transaction errors onto the typed error surface. Lock
// wait timeouts become retryable contention.
func (s *service) classify(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return err
	}
	if pkgerrors.IsLockTimeout(err) {
		return pkgerrors.Wrap(pkgerrors.CodeContention, err, "balance row is locked, retry the operation")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
