package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/api/controllers"
	"github.com/stocktrail/stocktrail-backend/internal/catalog"
	"github.com/stocktrail/stocktrail-backend/internal/inventory"
	"github.com/stocktrail/stocktrail-backend/internal/ledger"
	"github.com/stocktrail/stocktrail-backend/internal/realtime"
	"github.com/stocktrail/stocktrail-backend/internal/reports"
	"github.com/stocktrail/stocktrail-backend/pkg/config"
)

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:routes_" + uuid.NewString() + "?mode=memory&cache=shared"
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

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	db := setupRouterTestDB(t)
	tx := gormTxRunner{db: db}

	catalogRepo := catalog.NewRepository(db)
	catalogSvc, err := catalog.NewService(catalogRepo, tx)
	require.NoError(t, err)

	ledgerRepo := ledger.NewRepository(db)
	ledgerSvc, err := ledger.NewService(ledgerRepo)
	require.NoError(t, err)

	hub := realtime.NewHub(8, nil, nil)
	dispatcher := realtime.NewDispatcher(hub, nil, nil, nil)

	inventorySvc, err := inventory.NewService(
		inventory.NewRepository(db),
		tx,
		catalogRepo,
		ledgerRepo,
		dispatcher,
		nil,
		nil,
		0,
	)
	require.NoError(t, err)

	reportsSvc, err := reports.NewService(reports.NewRepository(db))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Stream.HeartbeatEvery = 25 * time.Second

	return NewRouter(cfg, nil, map[string]controllers.Pinger{}, Services{
		Catalog:   catalogSvc,
		Inventory: inventorySvc,
		Ledger:    ledgerSvc,
		Reports:   reportsSvc,
		Hub:       hub,
	})
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func TestHealthEndpoints(t *testing.T) {
	handler := newTestRouter(t)

	rec, env := doJSON(t, handler, http.MethodGet, "/health/live", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("live: status %d, body %s", rec.Code, rec.Body.String())
	}

	rec, env = doJSON(t, handler, http.MethodGet, "/health/ready", nil)
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("ready: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCategoryProductMovementFlow(t *testing.T) {
	handler := newTestRouter(t)

	rec, env := doJSON(t, handler, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Beverages"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var category struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &category))

	rec, env = doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"category_id":   category.ID.String(),
		"sku":           "BRW-001",
		"barcode":       "0123456789",
		"name":          "Cold Brew",
		"unit":          "piece",
		"price":         "4.50",
		"cost":          "1.25",
		"minimum_stock": 5,
		"maximum_stock": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var product struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	base := fmt.Sprintf("/api/v1/inventory/%s", product.ID)

	rec, env = doJSON(t, handler, http.MethodPost, base+"/movements", map[string]any{"kind": "IN", "quantity": 20})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var movement struct {
		CurrentStock int `json:"current_stock"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &movement))
	require.Equal(t, 20, movement.CurrentStock)

	// overdraw is rejected with 409
	rec, _ = doJSON(t, handler, http.MethodPost, base+"/movements", map[string]any{"kind": "OUT", "quantity": 50})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec, env = doJSON(t, handler, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var balance struct {
		CurrentQty   int `json:"current_qty"`
		AvailableQty int `json:"available_qty"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	require.Equal(t, 20, balance.CurrentQty)

	rec, _ = doJSON(t, handler, http.MethodPost, base+"/reserve", map[string]any{"quantity": 6})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = doJSON(t, handler, http.MethodGet, "/api/v1/transactions?product_id="+product.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var entries struct {
		Entries []struct {
			Kind     string `json:"kind"`
			Quantity int    `json:"quantity"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries.Entries, 1)
	require.Equal(t, "IN", entries.Entries[0].Kind)
	require.Equal(t, 20, entries.Entries[0].Quantity)
}

func TestValidationAndNotFoundMapping(t *testing.T) {
	handler := newTestRouter(t)

	// malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/categories", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// unknown product
	rec2, _ := doJSON(t, handler, http.MethodGet, "/api/v1/inventory/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec2.Code, rec2.Body.String())

	// bad path parameter
	rec3, _ := doJSON(t, handler, http.MethodGet, "/api/v1/inventory/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec3.Code, rec3.Body.String())
}

func TestReportEndpoints(t *testing.T) {
	handler := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/reports/low-stock",
		"/api/v1/reports/out-of-stock",
		"/api/v1/reports/valuation",
		"/api/v1/reports/categories",
		"/api/v1/reports/top-movers",
	} {
		rec, env := doJSON(t, handler, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK || !env.Success {
			t.Fatalf("%s: status %d, body %s", path, rec.Code, rec.Body.String())
		}
	}
}
