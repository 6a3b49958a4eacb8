package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupCatalogTestDB(t)
	svc, err := NewService(NewRepository(db), stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	return svc, db
}

func validProductInput(categoryID uuid.UUID) CreateProductInput {
	return CreateProductInput{
		CategoryID:   categoryID,
		SKU:          "SKU-" + uuid.NewString(),
		Barcode:      "BC-" + uuid.NewString(),
		Name:         "Cordless Drill",
		Unit:         enums.ProductUnitPiece,
		Price:        decimal.NewFromFloat(149.99),
		Cost:         decimal.NewFromFloat(90),
		MinimumStock: 5,
		MaximumStock: 50,
		IsActive:     true,
	}
}

func TestCreateProductSeedsBalance(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	category := mustCreateCategory(t, db, "Tools")

	dto, err := svc.CreateProduct(ctx, validProductInput(category.ID))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.Balance == nil {
		t.Fatal("expected seeded balance on the response")
	}
	if dto.Balance.CurrentQty != 0 || dto.Balance.AvailableQty != 0 {
		t.Fatalf("expected zero seeded balance, got %+v", dto.Balance)
	}

	var item models.InventoryItem
	if err := db.First(&item, "product_id = ?", dto.ID).Error; err != nil {
		t.Fatalf("expected balance row: %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	category := mustCreateCategory(t, db, "Tools")

	cases := map[string]func(*CreateProductInput){
		"empty sku":            func(in *CreateProductInput) { in.SKU = "  " },
		"empty barcode":        func(in *CreateProductInput) { in.Barcode = "" },
		"empty name":           func(in *CreateProductInput) { in.Name = "" },
		"invalid unit":         func(in *CreateProductInput) { in.Unit = "pallet" },
		"negative price":       func(in *CreateProductInput) { in.Price = decimal.NewFromInt(-1) },
		"negative cost":        func(in *CreateProductInput) { in.Cost = decimal.NewFromInt(-1) },
		"negative minimum":     func(in *CreateProductInput) { in.MinimumStock = -1 },
		"max equal to minimum": func(in *CreateProductInput) { in.MaximumStock = in.MinimumStock },
		"max below minimum":    func(in *CreateProductInput) { in.MinimumStock = 10; in.MaximumStock = 3 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validProductInput(category.ID)
			mutate(&input)
			_, err := svc.CreateProduct(ctx, input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), validProductInput(uuid.New()))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
}

type uniqueViolationRepo struct {
	Repository
}

func (r uniqueViolationRepo) WithTx(tx *gorm.DB) Repository {
	return r
}

func (r uniqueViolationRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return nil, &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	db := setupCatalogTestDB(t)
	category := mustCreateCategory(t, db, "Tools")

	svc, err := NewService(uniqueViolationRepo{NewRepository(db)}, stubTxRunner{})
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}

	_, err = svc.CreateProduct(context.Background(), validProductInput(category.ID))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected business rule error for duplicate sku, got %v", err)
	}
}

func TestDeleteCategoryRestrictedByActiveProducts(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	product := mustCreateProduct(t, db, category.ID, time.Now())

	err := svc.DeleteCategory(ctx, category.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected business rule error, got %v", err)
	}

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("deactivate product: %v", err)
	}
	if err := svc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("expected delete to succeed once products are inactive: %v", err)
	}
}

func TestDeleteProductIsSoft(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	product := mustCreateProduct(t, db, category.ID, time.Now())

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	var stored models.Product
	if err := db.First(&stored, "id = ?", product.ID).Error; err != nil {
		t.Fatalf("expected row to survive soft delete: %v", err)
	}
	if stored.IsActive {
		t.Fatal("expected product to be inactive")
	}

	// deleting again is a no-op
	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Renamed"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUpdateProductRevalidatesThresholds(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	category := mustCreateCategory(t, db, "Tools")
	product := mustCreateProduct(t, db, category.ID, time.Now())

	badMax := product.MinimumStock
	_, err := svc.UpdateProduct(ctx, product.ID, UpdateProductInput{MaximumStock: &badMax})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApplyProductUpdateTrims(t *testing.T) {
	product := &models.Product{
		SKU:  "old-sku",
		Name: "old name",
	}

	sku := "  new-sku  "
	name := " New Name "
	tags := []string{"clearance"}
	applyProductUpdate(product, UpdateProductInput{
		SKU:  &sku,
		Name: &name,
		Tags: &tags,
	})

	if product.SKU != "new-sku" {
		t.Fatalf("expected trimmed sku, got %q", product.SKU)
	}
	if product.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if len(product.Tags) != 1 || product.Tags[0] != "clearance" {
		t.Fatalf("expected tags copied, got %v", product.Tags)
	}
}
