package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

func TestCategoryCRUD(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.CreateCategory(ctx, &models.Category{ID: uuid.New(), Name: "Beverages"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	found, err := repo.FindCategoryByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("find category: %v", err)
	}
	if found.Name != "Beverages" {
		t.Fatalf("expected name Beverages, got %s", found.Name)
	}

	found.Name = "Drinks"
	if _, err := repo.UpdateCategory(ctx, found); err != nil {
		t.Fatalf("update category: %v", err)
	}

	mustCreateCategory(t, db, "Apparel")
	rows, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "Apparel" || rows[1].Name != "Drinks" {
		t.Fatalf("expected name-ordered categories, got %+v", rows)
	}

	if err := repo.DeleteCategory(ctx, created.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := repo.FindCategoryByID(ctx, created.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestCountActiveProducts(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	mustCreateProduct(t, db, category.ID, time.Now())
	inactive := mustCreateProduct(t, db, category.ID, time.Now())
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	count, err := repo.CountActiveProducts(ctx, category.ID)
	if err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 active product, got %d", count)
	}
}

func TestFindActiveProductSkipsInactive(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	product := mustCreateProduct(t, db, category.ID, time.Now())

	if _, err := repo.FindActiveProduct(ctx, product.ID); err != nil {
		t.Fatalf("expected active product, got %v", err)
	}

	if err := db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
	if _, err := repo.FindActiveProduct(ctx, product.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}
}

func TestSeedBalanceCreatesZeroRow(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	product := mustCreateProduct(t, db, category.ID, time.Now())

	if err := repo.SeedBalance(ctx, product.ID); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	var item models.InventoryItem
	if err := db.First(&item, "product_id = ?", product.ID).Error; err != nil {
		t.Fatalf("load balance: %v", err)
	}
	if item.CurrentQty != 0 || item.ReservedQty != 0 {
		t.Fatalf("expected zero balance, got current=%d reserved=%d", item.CurrentQty, item.ReservedQty)
	}
}

func TestListProductsCursorPagination(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Second)
	oldest := mustCreateProduct(t, db, category.ID, base)
	middle := mustCreateProduct(t, db, category.ID, base.Add(time.Minute))
	newest := mustCreateProduct(t, db, category.ID, base.Add(2*time.Minute))

	first, err := repo.ListProducts(ctx, ProductListQuery{
		Pagination: pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(first.Products))
	}
	if first.Products[0].ID != newest.ID || first.Products[1].ID != middle.ID {
		t.Fatalf("expected newest-first ordering")
	}
	if first.NextCursor == "" {
		t.Fatal("expected next cursor on first page")
	}

	second, err := repo.ListProducts(ctx, ProductListQuery{
		Pagination: pagination.Params{Limit: 2, Cursor: first.NextCursor},
	})
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Products) != 1 || second.Products[0].ID != oldest.ID {
		t.Fatalf("expected the oldest product on the second page")
	}
	if second.NextCursor != "" {
		t.Fatalf("expected no cursor on the last page, got %q", second.NextCursor)
	}
}

func TestListProductsFilters(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	tools := mustCreateCategory(t, db, "Tools")
	toys := mustCreateCategory(t, db, "Toys")
	hammer := mustCreateProduct(t, db, tools.ID, time.Now())
	if err := db.Model(hammer).Update("name", "Claw Hammer").Error; err != nil {
		t.Fatalf("rename product: %v", err)
	}
	inactive := mustCreateProduct(t, db, toys.ID, time.Now())
	if err := db.Model(inactive).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product: %v", err)
	}

	byCategory, err := repo.ListProducts(ctx, ProductListQuery{
		Filters: ProductListFilters{CategoryID: &tools.ID},
	})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory.Products) != 1 || byCategory.Products[0].ID != hammer.ID {
		t.Fatalf("expected only the tools product, got %d rows", len(byCategory.Products))
	}
	if byCategory.Products[0].CategoryName == nil || *byCategory.Products[0].CategoryName != "Tools" {
		t.Fatal("expected preloaded category name")
	}

	active := true
	activeOnly, err := repo.ListProducts(ctx, ProductListQuery{
		Filters: ProductListFilters{IsActive: &active},
	})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(activeOnly.Products) != 1 {
		t.Fatalf("expected 1 active product, got %d", len(activeOnly.Products))
	}

	byQuery, err := repo.ListProducts(ctx, ProductListQuery{
		Filters: ProductListFilters{Query: "claw"},
	})
	if err != nil {
		t.Fatalf("list by query: %v", err)
	}
	if len(byQuery.Products) != 1 || byQuery.Products[0].ID != hammer.ID {
		t.Fatalf("expected name search to match the hammer")
	}
}
