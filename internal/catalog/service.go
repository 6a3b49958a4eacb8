package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name        string
	Description *string
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID   uuid.UUID
	SKU          string
	Barcode      string
	Name         string
	Description  *string
	Unit         enums.ProductUnit
	Price        decimal.Decimal
	Cost         decimal.Decimal
	Tags         []string
	MinimumStock int
	MaximumStock int
	IsActive     bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID   *uuid.UUID
	SKU          *string
	Barcode      *string
	Name         *string
	Description  *string
	Unit         *enums.ProductUnit
	Price        *decimal.Decimal
	Cost         *decimal.Decimal
	Tags         *[]string
	MinimumStock *int
	MaximumStock *int
	IsActive     *bool
}

// service implements the catalog service.
type service struct {
	repo Repository
	tx   txRunner
}

// NewService constructs a catalog service instance.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateCategory creates a category with a unique name.
func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category := &models.Category{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(created), nil
}

// UpdateCategory updates the mutable fields of a category.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
		}
		category.Name = name
	}
	if input.Description != nil {
		category.Description = input.Description
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "category name already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return NewCategoryDTO(updated), nil
}

// DeleteCategory removes a category that no active product references.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	count, err := s.repo.CountActiveProducts(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeBusinessRule, "category still has active products")
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

// GetCategory returns a single category.
func (s *service) GetCategory(ctx context.Context, categoryID uuid.UUID) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return NewCategoryDTO(category), nil
}

// ListCategories returns every category ordered by name.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, len(rows))
	for i := range rows {
		out[i] = *NewCategoryDTO(&rows[i])
	}
	return out, nil
}

// CreateProduct creates the product and seeds its balance row in one transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.SKU, input.Barcode, input.Name, input.Unit); err != nil {
		return nil, err
	}
	if err := validateMoney(input.Price, input.Cost); err != nil {
		return nil, err
	}
	if err := validateStockThresholds(input.MinimumStock, input.MaximumStock); err != nil {
		return nil, err
	}
	if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	var createdProductID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product := &models.Product{
			ID:           uuid.New(),
			CategoryID:   input.CategoryID,
			SKU:          strings.TrimSpace(input.SKU),
			Barcode:      strings.TrimSpace(input.Barcode),
			Name:         strings.TrimSpace(input.Name),
			Description:  input.Description,
			Unit:         input.Unit,
			Price:        input.Price,
			Cost:         input.Cost,
			Tags:         input.Tags,
			MinimumStock: input.MinimumStock,
			MaximumStock: input.MaximumStock,
			IsActive:     input.IsActive,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, "sku or barcode already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdProductID = created.ID

		if err := txRepo.SeedBalance(ctx, created.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: seed balance")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.GetProductDetail(ctx, createdProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

// UpdateProduct updates an existing product and re-validates its invariants.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	applyProductUpdate(product, input)

	if err := validateProductFields(product.SKU, product.Barcode, product.Name, product.Unit); err != nil {
		return nil, err
	}
	if err := validateMoney(product.Price, product.Cost); err != nil {
		return nil, err
	}
	if err := validateStockThresholds(product.MinimumStock, product.MaximumStock); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "sku or barcode already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	detail, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(detail), nil
}

// DeleteProduct deactivates a product. The row and its ledger history stay.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil
	}

	product.IsActive = false
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate product")
	}
	return nil
}

// GetProduct returns a product with category and balance attached.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

// ListProducts returns one cursor page of filtered products.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	result, err := s.repo.ListProducts(ctx, ProductListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

func (s *service) ensureCategoryExists(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return nil
}

func validateProductFields(sku, barcode, name string, unit enums.ProductUnit) error {
	if strings.TrimSpace(sku) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if strings.TrimSpace(barcode) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if !unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid unit %q", unit))
	}
	return nil
}

func validateMoney(price, cost decimal.Decimal) error {
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if cost.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "cost cannot be negative")
	}
	return nil
}

func validateStockThresholds(minimum, maximum int) error {
	if minimum < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "minimum_stock cannot be negative")
	}
	if maximum <= minimum {
		return pkgerrors.New(pkgerrors.CodeValidation, "maximum_stock must be greater than minimum_stock")
	}
	return nil
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.SKU != nil {
		product.SKU = strings.TrimSpace(*input.SKU)
	}
	if input.Barcode != nil {
		product.Barcode = strings.TrimSpace(*input.Barcode)
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Cost != nil {
		product.Cost = *input.Cost
	}
	if input.Tags != nil {
		product.Tags = *input.Tags
	}
	if input.MinimumStock != nil {
		product.MinimumStock = *input.MinimumStock
	}
	if input.MaximumStock != nil {
		product.MaximumStock = *input.MaximumStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
