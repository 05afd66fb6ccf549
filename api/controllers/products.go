package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	productsvc "github.com/abhinavyadav-ai/asset-manager/internal/products"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// ListProducts returns the active catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminListProducts includes inactive products and cost data.
func AdminListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

type createProductRequest struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price" validate:"gt=0"`
	CostPrice     *decimal.Decimal `json:"costPrice,omitempty"`
	MarginPercent *decimal.Decimal `json:"marginPercent,omitempty"`
	Stock         int              `json:"stock" validate:"gte=0"`
	Category      string           `json:"category"`
	Images        []string         `json:"images" validate:"omitempty,dive,required"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

func (r createProductRequest) toCreateInput() (productsvc.CreateInput, error) {
	if err := nonNegative("price", r.Price, true); err != nil {
		return productsvc.CreateInput{}, err
	}
	if r.CostPrice != nil {
		if err := nonNegative("costPrice", *r.CostPrice, false); err != nil {
			return productsvc.CreateInput{}, err
		}
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return productsvc.CreateInput{
		Name:          strings.TrimSpace(r.Name),
		Description:   strings.TrimSpace(r.Description),
		Price:         r.Price,
		CostPrice:     r.CostPrice,
		MarginPercent: r.MarginPercent,
		Stock:         r.Stock,
		Category:      strings.TrimSpace(r.Category),
		Images:        r.Images,
		IsActive:      active,
	}, nil
}

type updateProductRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CostPrice     *decimal.Decimal `json:"costPrice,omitempty"`
	MarginPercent *decimal.Decimal `json:"marginPercent,omitempty"`
	Stock         *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category      *string          `json:"category,omitempty"`
	Images        *[]string        `json:"images,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

func (r updateProductRequest) toUpdateInput() (productsvc.UpdateInput, error) {
	if r.Price != nil {
		if err := nonNegative("price", *r.Price, true); err != nil {
			return productsvc.UpdateInput{}, err
		}
	}
	if r.CostPrice != nil {
		if err := nonNegative("costPrice", *r.CostPrice, false); err != nil {
			return productsvc.UpdateInput{}, err
		}
	}
	return productsvc.UpdateInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		CostPrice:     r.CostPrice,
		MarginPercent: r.MarginPercent,
		Stock:         r.Stock,
		Category:      r.Category,
		Images:        r.Images,
		IsActive:      r.IsActive,
	}, nil
}

// nonNegative rejects negative amounts, and zero too when strict is set.
func nonNegative(field string, value decimal.Decimal, strict bool) error {
	if value.IsNegative() || (strict && value.IsZero()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{field: "must be a positive amount"})
	}
	return nil
}
