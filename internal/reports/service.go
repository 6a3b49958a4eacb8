package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

const (
	defaultListLimit   = 50
	maxListLimit       = 200
	defaultMoversLimit = 5
	maxMoversLimit     = 50
	defaultWindow      = 30 * 24 * time.Hour
)

// Service computes the reporting projections. Every call reads the current
// committed state, nothing is memoized between requests.
type Service interface {
	LowStock(ctx context.Context, limit int) ([]StockItem, error)
	OutOfStock(ctx context.Context, limit int) ([]StockItem, error)
	Valuation(ctx context.Context) (*ValuationReport, error)
	CategoryRollups(ctx context.Context) ([]CategoryRollup, error)
	TopMovers(ctx context.Context, input TopMoversInput) ([]TopMover, error)
}

type service struct {
	repo Repository
}

// NewService constructs the reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) LowStock(ctx context.Context, limit int) ([]StockItem, error) {
	rows, err := s.repo.LowStock(ctx, clampLimit(limit, defaultListLimit, maxListLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query low stock")
	}
	items := make([]StockItem, len(rows))
	for i, row := range rows {
		items[i] = newStockItem(row)
	}
	return items, nil
}

func (s *service) OutOfStock(ctx context.Context, limit int) ([]StockItem, error) {
	rows, err := s.repo.OutOfStock(ctx, clampLimit(limit, defaultListLimit, maxListLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query out of stock")
	}
	items := make([]StockItem, len(rows))
	for i, row := range rows {
		items[i] = newStockItem(row)
	}
	return items, nil
}

func (s *service) Valuation(ctx context.Context) (*ValuationReport, error) {
	rows, err := s.repo.CostRows(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query valuation rows")
	}

	report := &ValuationReport{Items: make([]ValuationItem, len(rows)), TotalValue: decimal.Zero}
	for i, row := range rows {
		value := row.Cost.Mul(decimal.NewFromInt(int64(row.CurrentQty)))
		report.Items[i] = ValuationItem{
			ProductID:    row.ProductID,
			Name:         row.Name,
			SKU:          row.SKU,
			CurrentStock: row.CurrentQty,
			UnitCost:     row.Cost,
			TotalValue:   value,
		}
		report.TotalValue = report.TotalValue.Add(value)
		report.TotalUnits += row.CurrentQty
	}
	return report, nil
}

func (s *service) CategoryRollups(ctx context.Context) ([]CategoryRollup, error) {
	rows, err := s.repo.CostRows(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query category rollups")
	}

	byCategory := make(map[string]*CategoryRollup)
	for _, row := range rows {
		key := row.CategoryID.String()
		rollup, ok := byCategory[key]
		if !ok {
			rollup = &CategoryRollup{
				CategoryID:   row.CategoryID,
				CategoryName: row.CategoryName,
				TotalValue:   decimal.Zero,
			}
			byCategory[key] = rollup
		}
		rollup.ProductCount++
		rollup.TotalUnits += row.CurrentQty
		rollup.TotalValue = rollup.TotalValue.Add(row.Cost.Mul(decimal.NewFromInt(int64(row.CurrentQty))))
	}

	rollups := make([]CategoryRollup, 0, len(byCategory))
	for _, rollup := range byCategory {
		rollups = append(rollups, *rollup)
	}
	sort.Slice(rollups, func(i, j int) bool {
		return rollups[i].CategoryName < rollups[j].CategoryName
	})
	return rollups, nil
}

func (s *service) TopMovers(ctx context.Context, input TopMoversInput) ([]TopMover, error) {
	from, to := input.From, input.To
	if from.IsZero() && to.IsZero() {
		to = time.Now().UTC()
		from = to.Add(-defaultWindow)
	}
	if from.IsZero() != to.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report window needs both from and to")
	}
	if !to.After(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "report window ends before it starts")
	}

	rows, err := s.repo.TopMovers(ctx, from, to, clampLimit(input.Limit, defaultMoversLimit, maxMoversLimit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query top movers")
	}

	movers := make([]TopMover, len(rows))
	for i, row := range rows {
		movers[i] = TopMover{
			ProductID:  row.ProductID,
			Name:       row.Name,
			SKU:        row.SKU,
			Movements:  row.Movements,
			UnitsMoved: row.UnitsMoved,
		}
	}
	return movers, nil
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
