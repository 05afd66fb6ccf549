package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// Coupon is the subset of a coupon record the rules look at.
type Coupon struct {
	Code          string
	Type          enums.DiscountType
	Value         decimal.Decimal
	MinOrderValue decimal.Decimal
	MaxDiscount   *decimal.Decimal
	UsageLimit    *int
	UsedCount     int
	Active        bool
	ExpiresAt     *time.Time
}

// RejectionReason identifies which coupon check failed.
type RejectionReason string

const (
	ReasonNotFound          RejectionReason = "not_found"
	ReasonInactive          RejectionReason = "inactive"
	ReasonExpired           RejectionReason = "expired"
	ReasonUsageLimitReached RejectionReason = "usage_limit_reached"
	ReasonMinimumNotMet     RejectionReason = "minimum_not_met"
)

// CouponRejection is returned when a coupon cannot be applied. Message is
// safe to show to shoppers.
type CouponRejection struct {
	Code    string
	Reason  RejectionReason
	Message string
}

func (r *CouponRejection) Error() string {
	return r.Message
}

// CouponResult is an accepted coupon and the discount it yields.
type CouponResult struct {
	Code     string          `json:"code"`
	Type     string          `json:"discountType"`
	Discount decimal.Decimal `json:"discountAmount"`
}

// NormalizeCode upper-cases and trims a shopper-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CheckCoupon runs the subtotal independent checks in order: exists, active,
// not expired, under its usage limit.
func CheckCoupon(code string, coupon *Coupon, now time.Time) *CouponRejection {
	switch {
	case coupon == nil:
		return reject(code, ReasonNotFound, "Invalid or expired coupon code")
	case !coupon.Active:
		return reject(code, ReasonInactive, "This coupon is no longer active")
	case coupon.ExpiresAt != nil && !coupon.ExpiresAt.After(now):
		return reject(code, ReasonExpired, "This coupon has expired")
	case coupon.UsageLimit != nil && coupon.UsedCount >= *coupon.UsageLimit:
		return reject(code, ReasonUsageLimitReached, "Coupon usage limit reached")
	}
	return nil
}

// ValidateCoupon applies every check, stopping at the first failure, and
// computes the discount on success. A failure is always a *CouponRejection;
// there is no silent fallback to "no discount".
func ValidateCoupon(code string, subtotal decimal.Decimal, coupon *Coupon, now time.Time) (CouponResult, error) {
	if rejection := CheckCoupon(code, coupon, now); rejection != nil {
		return CouponResult{}, rejection
	}
	if subtotal.LessThan(coupon.MinOrderValue) {
		return CouponResult{}, reject(code, ReasonMinimumNotMet,
			fmt.Sprintf("Minimum order of ₹%s required for this coupon", coupon.MinOrderValue.String()))
	}
	return CouponResult{
		Code:     coupon.Code,
		Type:     coupon.Type.String(),
		Discount: CouponDiscount(*coupon, subtotal),
	}, nil
}

// CouponDiscount computes the discount for an already validated coupon.
// Percentage coupons are capped by MaxDiscount when it is set and positive;
// fixed coupons never exceed the subtotal.
func CouponDiscount(coupon Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch coupon.Type {
	case enums.DiscountTypePercentage:
		amount = subtotal.Mul(coupon.Value).Div(hundred)
		if coupon.MaxDiscount != nil && coupon.MaxDiscount.IsPositive() {
			amount = decimal.Min(amount, *coupon.MaxDiscount)
		}
	default:
		amount = decimal.Min(coupon.Value, subtotal)
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return roundMoney(amount)
}

func reject(code string, reason RejectionReason, message string) *CouponRejection {
	return &CouponRejection{Code: NormalizeCode(code), Reason: reason, Message: message}
}
