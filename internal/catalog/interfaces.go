package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

// Repository defines persistence operations for the catalog tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CountActiveProducts(ctx context.Context, categoryID uuid.UUID) (int64, error)

	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	SeedBalance(ctx context.Context, productID uuid.UUID) error
	ListProducts(ctx context.Context, query ProductListQuery) (*ProductListResult, error)
}
