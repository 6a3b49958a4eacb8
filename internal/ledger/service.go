package ledger

import (
	"context"
	"fmt"

	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

// Service exposes the read-only ledger query surface. Writes happen only
// inside the stock mutator's transaction.
type Service interface {
	Query(ctx context.Context, query Query) (*EntryList, error)
}

type service struct {
	repo Repository
}

// NewService constructs a ledger query service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Query(ctx context.Context, query Query) (*EntryList, error) {
	if query.Kind != nil && !query.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid movement kind %q", *query.Kind))
	}
	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query window ends before it starts")
	}

	result, err := s.repo.Query(ctx, query)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query ledger")
	}
	return result, nil
}
