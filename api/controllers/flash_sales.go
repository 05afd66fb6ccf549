package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/flashsales"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// ActiveFlashSale returns the running sale, or null when there is none.
func ActiveFlashSale(svc flashsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sale, err := svc.Active(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

func AdminListFlashSales(svc flashsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

type createFlashSaleRequest struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Description     string          `json:"description"`
	BannerImage     *string         `json:"bannerImage,omitempty"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	StartDate       time.Time       `json:"startDate" validate:"required"`
	EndDate         time.Time       `json:"endDate" validate:"required"`
	IsActive        *bool           `json:"isActive,omitempty"`
}

type updateFlashSaleRequest struct {
	Title           *string          `json:"title,omitempty" validate:"omitempty,max=200"`
	Description     *string          `json:"description,omitempty"`
	BannerImage     *string          `json:"bannerImage,omitempty"`
	DiscountPercent *decimal.Decimal `json:"discountPercent,omitempty"`
	StartDate       *time.Time       `json:"startDate,omitempty"`
	EndDate         *time.Time       `json:"endDate,omitempty"`
	IsActive        *bool            `json:"isActive,omitempty"`
}

func AdminCreateFlashSale(svc flashsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFlashSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}
		sale, err := svc.Create(r.Context(), flashsales.CreateInput{
			Title:           payload.Title,
			Description:     payload.Description,
			BannerImage:     payload.BannerImage,
			DiscountPercent: payload.DiscountPercent,
			StartDate:       payload.StartDate,
			EndDate:         payload.EndDate,
			IsActive:        active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

func AdminUpdateFlashSale(svc flashsales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateFlashSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Update(r.Context(), id, flashsales.UpdateInput{
			Title:           payload.Title,
			Description:     payload.Description,
			BannerImage:     payload.BannerImage,
			DiscountPercent: payload.DiscountPercent,
			StartDate:       payload.StartDate,
			EndDate:         payload.EndDate,
			IsActive:        payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

func AdminDeleteFlashSale(svc flashsales.Service, logg *logger.Logger) http.HandlerFunc {
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
