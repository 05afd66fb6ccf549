package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/coupons"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

// ValidateCoupon checks a code for the cart screen. With ?subtotal= the
// minimum order value is enforced and the discount is computed.
func ValidateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subtotal, err := validators.ParseQueryDecimal(r, "subtotal")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code := validators.NormalizeCode(chi.URLParam(r, "code"), 50)

		result, err := svc.Validate(r.Context(), code, subtotal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminListCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminCreateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, coupon)
	}
}

func AdminUpdateCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toUpdateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, coupon)
	}
}

func AdminDeleteCoupon(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
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

type createCouponRequest struct {
	Code          string           `json:"code" validate:"required,max=50"`
	DiscountType  string           `json:"discountType" validate:"required"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	UsageLimit    *int             `json:"usageLimit,omitempty" validate:"omitempty,gte=1"`
	IsActive      *bool            `json:"isActive,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
}

func (r createCouponRequest) toCreateInput() (coupons.CreateInput, error) {
	discountType, err := enums.ParseDiscountType(strings.TrimSpace(r.DiscountType))
	if err != nil {
		return coupons.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discountType")
	}
	if err := nonNegative("discountValue", r.DiscountValue, true); err != nil {
		return coupons.CreateInput{}, err
	}
	minOrder := decimal.Zero
	if r.MinOrderValue != nil {
		if err := nonNegative("minOrderValue", *r.MinOrderValue, false); err != nil {
			return coupons.CreateInput{}, err
		}
		minOrder = *r.MinOrderValue
	}
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return coupons.CreateInput{
		Code:          r.Code,
		DiscountType:  discountType,
		DiscountValue: r.DiscountValue,
		MinOrderValue: minOrder,
		MaxDiscount:   r.MaxDiscount,
		UsageLimit:    r.UsageLimit,
		IsActive:      active,
		ExpiresAt:     r.ExpiresAt,
	}, nil
}

type updateCouponRequest struct {
	DiscountType  *string          `json:"discountType,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	UsageLimit    *int             `json:"usageLimit,omitempty" validate:"omitempty,gte=1"`
	IsActive      *bool            `json:"isActive,omitempty"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
}

func (r updateCouponRequest) toUpdateInput() (coupons.UpdateInput, error) {
	input := coupons.UpdateInput{
		DiscountValue: r.DiscountValue,
		MinOrderValue: r.MinOrderValue,
		MaxDiscount:   r.MaxDiscount,
		UsageLimit:    r.UsageLimit,
		IsActive:      r.IsActive,
		ExpiresAt:     r.ExpiresAt,
	}
	if r.DiscountType != nil {
		parsed, err := enums.ParseDiscountType(strings.TrimSpace(*r.DiscountType))
		if err != nil {
			return coupons.UpdateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discountType")
		}
		input.DiscountType = &parsed
	}
	if r.DiscountValue != nil {
		if err := nonNegative("discountValue", *r.DiscountValue, true); err != nil {
			return coupons.UpdateInput{}, err
		}
	}
	return input, nil
}
