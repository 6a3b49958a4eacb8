package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stocktrail/stocktrail-backend/api/responses"
	"github.com/stocktrail/stocktrail-backend/api/validators"
	"github.com/stocktrail/stocktrail-backend/internal/catalog"
	"github.com/stocktrail/stocktrail-backend/pkg/enums"
	pkgerrors "github.com/stocktrail/stocktrail-backend/pkg/errors"
	"github.com/stocktrail/stocktrail-backend/pkg/logger"
	"github.com/stocktrail/stocktrail-backend/pkg/pagination"
)

type createProductRequest struct {
	CategoryID   string          `json:"category_id" validate:"required,uuid"`
	SKU          string          `json:"sku" validate:"required,max=64"`
	Barcode      string          `json:"barcode" validate:"required,max=64"`
	Name         string          `json:"name" validate:"required,max=200"`
	Description  *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	Unit         string          `json:"unit" validate:"required"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Tags         []string        `json:"tags,omitempty" validate:"omitempty,dive,required"`
	MinimumStock int             `json:"minimum_stock" validate:"gte=0"`
	MaximumStock int             `json:"maximum_stock" validate:"gte=0"`
	IsActive     *bool           `json:"is_active,omitempty"`
}

func (p createProductRequest) toInput() (catalog.CreateProductInput, error) {
	categoryID, err := uuid.Parse(p.CategoryID)
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}

	unit, err := enums.ParseProductUnit(strings.TrimSpace(p.Unit))
	if err != nil {
		return catalog.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
	}

	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}

	return catalog.CreateProductInput{
		CategoryID:   categoryID,
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         unit,
		Price:        p.Price,
		Cost:         p.Cost,
		Tags:         p.Tags,
		MinimumStock: p.MinimumStock,
		MaximumStock: p.MaximumStock,
		IsActive:     active,
	}, nil
}

type updateProductRequest struct {
	CategoryID   *string          `json:"category_id,omitempty" validate:"omitempty,uuid"`
	SKU          *string          `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Barcode      *string          `json:"barcode,omitempty" validate:"omitempty,min=1,max=64"`
	Name         *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Unit         *string          `json:"unit,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Tags         *[]string        `json:"tags,omitempty"`
	MinimumStock *int             `json:"minimum_stock,omitempty" validate:"omitempty,gte=0"`
	MaximumStock *int             `json:"maximum_stock,omitempty" validate:"omitempty,gte=0"`
	IsActive     *bool            `json:"is_active,omitempty"`
}

func (p updateProductRequest) toInput() (catalog.UpdateProductInput, error) {
	input := catalog.UpdateProductInput{
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Cost:         p.Cost,
		Tags:         p.Tags,
		MinimumStock: p.MinimumStock,
		MaximumStock: p.MaximumStock,
		IsActive:     p.IsActive,
	}

	if p.CategoryID != nil {
		categoryID, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &categoryID
	}
	if p.Unit != nil {
		unit, err := enums.ParseProductUnit(strings.TrimSpace(*p.Unit))
		if err != nil {
			return catalog.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid unit")
		}
		input.Unit = &unit
	}
	return input, nil
}

func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteCreated(w, product, "product created")
	}
}

func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product, "product updated")
	}
}

func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil, "product deactivated")
	}
}

func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product, "")
	}
}

func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		isActive, err := validators.ParseQueryBool(r, "is_active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Filters: catalog.ProductListFilters{
				CategoryID: categoryID,
				IsActive:   isActive,
				Query:      r.URL.Query().Get("q"),
			},
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result, "")
	}
}
