package catalog

import (
	"github.com/google/uuid"

	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

// ProductListFilters describe the supported filter knobs for the list endpoint.
type ProductListFilters struct {
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
	Query      string     `json:"q,omitempty"`
}

// ListProductsInput captures the inputs needed to paginate and filter products.
type ListProductsInput struct {
	Filters    ProductListFilters
	Pagination pagination.Params
}

// ProductListQuery is the repository-level list request.
type ProductListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}
