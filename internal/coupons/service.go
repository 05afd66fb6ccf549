package coupons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
)

// Service validates coupons for shoppers and manages them for admins.
type Service interface {
	Validate(ctx context.Context, code string, subtotal *decimal.Decimal) (*ValidationResult, error)
	Rule(ctx context.Context, code string) (*pricing.Coupon, error)
	List(ctx context.Context) ([]CouponDTO, error)
	Create(ctx context.Context, input CreateInput) (*CouponDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*CouponDTO, error)
	Delete(ctx context.Context, id int64) error
}

// CouponDTO is the coupon payload for admin screens and validation replies.
type CouponDTO struct {
	ID            int64            `json:"id"`
	Code          string           `json:"code"`
	DiscountType  string           `json:"discountType"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinOrderValue decimal.Decimal  `json:"minOrderValue"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	UsageLimit    *int             `json:"usageLimit,omitempty"`
	UsedCount     int              `json:"usedCount"`
	IsActive      bool             `json:"isActive"`
	ExpiresAt     *time.Time       `json:"expiresAt,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// ValidationResult is returned by the public validate endpoint. The discount
// is only computed when the caller passed a subtotal.
type ValidationResult struct {
	Coupon         CouponDTO        `json:"coupon"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`
}

type CreateInput struct {
	Code          string
	DiscountType  enums.DiscountType
	DiscountValue decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	UsageLimit    *int
	IsActive      bool
	ExpiresAt     *time.Time
}

type UpdateInput struct {
	DiscountType  *enums.DiscountType
	DiscountValue *decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxDiscount   *decimal.Decimal
	UsageLimit    *int
	IsActive      *bool
	ExpiresAt     *time.Time
}

type service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

// ToRule converts a stored coupon into the shape the pricing rules consume.
func ToRule(c models.Coupon) pricing.Coupon {
	return pricing.Coupon{
		Code:          c.Code,
		Type:          c.DiscountType,
		Value:         c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		MaxDiscount:   c.MaxDiscount,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		Active:        c.IsActive,
		ExpiresAt:     c.ExpiresAt,
	}
}

// RejectionError maps a coupon rejection onto the API error taxonomy. Unknown
// codes are 404s, every other failed check is a 400.
func RejectionError(rejection *pricing.CouponRejection) *pkgerrors.Error {
	code := pkgerrors.CodeValidation
	if rejection.Reason == pricing.ReasonNotFound {
		code = pkgerrors.CodeNotFound
	}
	return pkgerrors.New(code, rejection.Message).WithDetails(map[string]any{
		"reason": string(rejection.Reason),
		"code":   rejection.Code,
	})
}

// Rule loads the coupon for code in pricing form. It returns nil, nil when no
// such code exists.
func (s *service) Rule(ctx context.Context, code string) (*pricing.Coupon, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, nil
	}
	row, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}
	rule := ToRule(*row)
	return &rule, nil
}

func (s *service) Validate(ctx context.Context, code string, subtotal *decimal.Decimal) (*ValidationResult, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	var row *models.Coupon
	found, err := s.repo.FindByCode(ctx, normalized)
	switch {
	case err == nil:
		row = found
	case db.IsNotFound(err):
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	var rule *pricing.Coupon
	if row != nil {
		converted := ToRule(*row)
		rule = &converted
	}

	now := s.now()
	if subtotal == nil {
		if rejection := pricing.CheckCoupon(normalized, rule, now); rejection != nil {
			return nil, RejectionError(rejection)
		}
		return &ValidationResult{Coupon: toDTO(*row)}, nil
	}

	result, err := pricing.ValidateCoupon(normalized, *subtotal, rule, now)
	if err != nil {
		var rejection *pricing.CouponRejection
		if errors.As(err, &rejection) {
			return nil, RejectionError(rejection)
		}
		return nil, err
	}
	discount := result.Discount
	return &ValidationResult{Coupon: toDTO(*row), DiscountAmount: &discount}, nil
}

func (s *service) List(ctx context.Context) ([]CouponDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	out := make([]CouponDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CouponDTO, error) {
	code := pricing.NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	if err := validateAmounts(input.DiscountType, input.DiscountValue, input.MinOrderValue, input.MaxDiscount, input.UsageLimit); err != nil {
		return nil, err
	}

	coupon := models.Coupon{
		Code:          code,
		DiscountType:  input.DiscountType,
		DiscountValue: input.DiscountValue,
		MinOrderValue: input.MinOrderValue,
		MaxDiscount:   input.MaxDiscount,
		UsageLimit:    input.UsageLimit,
		IsActive:      input.IsActive,
		ExpiresAt:     input.ExpiresAt,
	}
	if err := s.repo.Create(ctx, &coupon); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}
	dto := toDTO(coupon)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*CouponDTO, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Coupon not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
	}

	merged := *current
	updates := map[string]any{}
	if input.DiscountType != nil {
		merged.DiscountType = *input.DiscountType
		updates["discount_type"] = *input.DiscountType
	}
	if input.DiscountValue != nil {
		merged.DiscountValue = *input.DiscountValue
		updates["discount_value"] = *input.DiscountValue
	}
	if input.MinOrderValue != nil {
		merged.MinOrderValue = *input.MinOrderValue
		updates["min_order_value"] = *input.MinOrderValue
	}
	if input.MaxDiscount != nil {
		merged.MaxDiscount = input.MaxDiscount
		updates["max_discount"] = *input.MaxDiscount
	}
	if input.UsageLimit != nil {
		merged.UsageLimit = input.UsageLimit
		updates["usage_limit"] = *input.UsageLimit
	}
	if input.IsActive != nil {
		merged.IsActive = *input.IsActive
		updates["is_active"] = *input.IsActive
	}
	if input.ExpiresAt != nil {
		merged.ExpiresAt = input.ExpiresAt
		updates["expires_at"] = *input.ExpiresAt
	}
	if err := validateAmounts(merged.DiscountType, merged.DiscountValue, merged.MinOrderValue, merged.MaxDiscount, merged.UsageLimit); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if _, err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
		}
	}
	dto := toDTO(merged)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Coupon not found")
	}
	return nil
}

func validateAmounts(kind enums.DiscountType, value, minOrder decimal.Decimal, maxDiscount *decimal.Decimal, usageLimit *int) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountType must be percentage or fixed")
	}
	if !value.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discountValue must be positive")
	}
	if kind == enums.DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if minOrder.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "minOrderValue must not be negative")
	}
	if maxDiscount != nil && maxDiscount.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "maxDiscount must not be negative")
	}
	if usageLimit != nil && *usageLimit < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "usageLimit must not be negative")
	}
	return nil
}

func toDTO(c models.Coupon) CouponDTO {
	return CouponDTO{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType.String(),
		DiscountValue: c.DiscountValue,
		MinOrderValue: c.MinOrderValue,
		MaxDiscount:   c.MaxDiscount,
		UsageLimit:    c.UsageLimit,
		UsedCount:     c.UsedCount,
		IsActive:      c.IsActive,
		ExpiresAt:     c.ExpiresAt,
		CreatedAt:     c.CreatedAt,
	}
}
