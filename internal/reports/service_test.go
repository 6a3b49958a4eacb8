package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

func TestValuationMath(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	ctx := context.Background()

	category := seedCategory(t, db, "Coffee")
	seedProduct(t, db, category.ID, seedProductInput{name: "Beans", cost: decimal.RequireFromString("12.50"), currentQty: 4, minimum: 1, active: true})
	seedProduct(t, db, category.ID, seedProductInput{name: "Cups", cost: decimal.RequireFromString("0.30"), currentQty: 100, minimum: 1, active: true})

	report, err := svc.Valuation(ctx)
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(report.Items))
	}
	if !report.Items[0].TotalValue.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("expected beans line 50, got %s", report.Items[0].TotalValue)
	}
	if !report.TotalValue.Equal(decimal.RequireFromString("80")) {
		t.Fatalf("expected grand total 80, got %s", report.TotalValue)
	}
	if report.TotalUnits != 104 {
		t.Fatalf("expected 104 units, got %d", report.TotalUnits)
	}
}

func TestCategoryRollupsGroupAndSort(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	ctx := context.Background()

	coffee := seedCategory(t, db, "Coffee")
	bakery := seedCategory(t, db, "Bakery")
	seedProduct(t, db, coffee.ID, seedProductInput{name: "Beans", cost: decimal.NewFromInt(10), currentQty: 3, minimum: 1, active: true})
	seedProduct(t, db, coffee.ID, seedProductInput{name: "Filters", cost: decimal.NewFromInt(2), currentQty: 5, minimum: 1, active: true})
	seedProduct(t, db, bakery.ID, seedProductInput{name: "Flour", cost: decimal.NewFromInt(4), currentQty: 2, minimum: 1, active: true})

	rollups, err := svc.CategoryRollups(ctx)
	if err != nil {
		t.Fatalf("rollups: %v", err)
	}
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(rollups))
	}
	if rollups[0].CategoryName != "Bakery" || rollups[1].CategoryName != "Coffee" {
		t.Fatalf("expected alphabetic order, got %q then %q", rollups[0].CategoryName, rollups[1].CategoryName)
	}
	if rollups[0].ProductCount != 1 || rollups[0].TotalUnits != 2 || !rollups[0].TotalValue.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unexpected bakery rollup %+v", rollups[0])
	}
	if rollups[1].ProductCount != 2 || rollups[1].TotalUnits != 8 || !rollups[1].TotalValue.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected coffee rollup %+v", rollups[1])
	}
}

func TestTopMoversWindowValidation(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	ctx := context.Background()
	at := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	_, err = svc.TopMovers(ctx, TopMoversInput{From: at, To: at.Add(-time.Hour)})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for inverted window, got %v", err)
	}

	_, err = svc.TopMovers(ctx, TopMoversInput{From: at})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for half-open input, got %v", err)
	}

	// zero window defaults to the trailing month and succeeds on empty data
	movers, err := svc.TopMovers(ctx, TopMoversInput{})
	if err != nil {
		t.Fatalf("default window: %v", err)
	}
	if len(movers) != 0 {
		t.Fatalf("expected no movers, got %d", len(movers))
	}
}

func TestClampLimit(t *testing.T) {
	cases := map[string]struct {
		limit, fallback, max, want int
	}{
		"zero uses fallback":     {0, 50, 200, 50},
		"negative uses fallback": {-3, 50, 200, 50},
		"in range passes":        {25, 50, 200, 25},
		"over max clamps":        {500, 50, 200, 200},
	}
	for name, tc := range cases {
		if got := clampLimit(tc.limit, tc.fallback, tc.max); got != tc.want {
			t.Fatalf("%s: got %d, want %d", name, got, tc.want)
		}
	}
}
