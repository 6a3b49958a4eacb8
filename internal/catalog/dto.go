package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocktrail/stocktrail-backend/pkg/db/models"
)

// CategoryDTO is the category payload returned to clients.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategoryDTO builds a DTO from the persisted model.
func NewCategoryDTO(category *models.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName *string         `json:"category_name,omitempty"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Name         string          `json:"name"`
	Description  *string         `json:"description,omitempty"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Tags         []string        `json:"tags"`
	MinimumStock int             `json:"minimum_stock"`
	MaximumStock int             `json:"maximum_stock"`
	IsActive     bool            `json:"is_active"`
	Balance      *BalanceDTO     `json:"balance,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// BalanceDTO exposes the stock counts attached to a product read.
type BalanceDTO struct {
	CurrentQty   int       `json:"current_qty"`
	ReservedQty  int       `json:"reserved_qty"`
	AvailableQty int       `json:"available_qty"`
	Location     string    `json:"location"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductListResult is one cursor page of products.
type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:           product.ID,
		CategoryID:   product.CategoryID,
		SKU:          product.SKU,
		Barcode:      product.Barcode,
		Name:         product.Name,
		Description:  product.Description,
		Unit:         string(product.Unit),
		Price:        product.Price,
		Cost:         product.Cost,
		Tags:         append([]string{}, product.Tags...),
		MinimumStock: product.MinimumStock,
		MaximumStock: product.MaximumStock,
		IsActive:     product.IsActive,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
	if product.Category != nil {
		name := product.Category.Name
		dto.CategoryName = &name
	}
	if product.Balance != nil {
		dto.Balance = &BalanceDTO{
			CurrentQty:   product.Balance.CurrentQty,
			ReservedQty:  product.Balance.ReservedQty,
			AvailableQty: product.Balance.AvailableQty(),
			Location:     product.Balance.Location,
			UpdatedAt:    product.Balance.UpdatedAt,
		}
	}
	return dto
}
