package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/bulkdiscounts"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// ListActiveBulkDiscounts returns the tiers shown on the cart page, smallest
// quantity first.
func ListActiveBulkDiscounts(svc bulkdiscounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListActive(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminListBulkDiscounts(svc bulkdiscounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type createBulkDiscountRequest struct {
	Name            string          `json:"name" validate:"required,max=100"`
	MinQuantity     int             `json:"minQuantity" validate:"required,gte=1"`
	DiscountPercent decimal.Decimal `json:"discountPercent" validate:"gt=0,lte=100"`
	IsActive        *bool           `json:"isActive,omitempty"`
}

type updateBulkDiscountRequest struct {
	Name            *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	MinQuantity     *int             `json:"minQuantity,omitempty" validate:"omitempty,gte=1"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty" validate:"omitempty,gt=0,lte=100"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

func AdminCreateBulkDiscount(svc bulkdiscounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createBulkDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}

		tier, err := svc.Create(r.Context(), bulkdiscounts.CreateInput{
			Name:            payload.Name,
			MinQuantity:     payload.MinQuantity,
			DiscountPercent: payload.DiscountPercent,
			IsActive:        active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tier)
	}
}

func AdminUpdateBulkDiscount(svc bulkdiscounts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateBulkDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tier, err := svc.Update(r.Context(), id, bulkdiscounts.UpdateInput{
			Name:            payload.Name,
			MinQuantity:     payload.MinQuantity,
			DiscountPercent: payload.DiscountPercent,
			IsActive:        payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tier)
	}
}

func AdminDeleteBulkDiscount(svc bulkdiscounts.Service, logg *logger.Logger) http.HandlerFunc {
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
