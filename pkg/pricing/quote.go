package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteInput is everything needed to price a cart.
type QuoteInput struct {
	Items []LineItem
	City  string
	// CouponCode is what the shopper typed. Coupon is the record looked up for
	// it, nil when no such code exists.
	CouponCode    string
	Coupon        *Coupon
	BulkDiscounts []BulkDiscountRule
	Rates         ShippingRates
	Now           time.Time
}

// Quote is a fully priced cart.
type Quote struct {
	Items          []LineItem          `json:"items"`
	ItemCount      int                 `json:"itemCount"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	BulkDiscount   *BulkDiscountResult `json:"bulkDiscount,omitempty"`
	Coupon         *CouponResult       `json:"coupon,omitempty"`
	DiscountAmount decimal.Decimal     `json:"discountAmount"`
	Shipping       decimal.Decimal     `json:"shipping"`
	Total          decimal.Decimal     `json:"total"`
}

// DiscountCode returns the applied coupon code, or nil when the discount (if
// any) came from a bulk rule.
func (q Quote) DiscountCode() *string {
	if q.Coupon == nil {
		return nil
	}
	code := q.Coupon.Code
	return &code
}

// ComputeTotal is max(0, subtotal − discount + shipping).
func ComputeTotal(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discount).Add(shipping)
	if total.IsNegative() {
		return decimal.Zero
	}
	return roundMoney(total)
}

// BuildQuote prices a cart. A coupon code, when given, must validate and then
// replaces any bulk discount; without one the best qualifying bulk rule
// applies. An invalid coupon yields a *CouponRejection.
func BuildQuote(in QuoteInput) (Quote, error) {
	cart := NewCart(in.Items...)
	quote := Quote{
		Items:          cart.Items(),
		ItemCount:      cart.ItemCount(),
		Subtotal:       roundMoney(cart.Subtotal()),
		DiscountAmount: decimal.Zero,
	}

	if NormalizeCode(in.CouponCode) != "" {
		result, err := ValidateCoupon(in.CouponCode, quote.Subtotal, in.Coupon, in.Now)
		if err != nil {
			return Quote{}, err
		}
		quote.Coupon = &result
		quote.DiscountAmount = result.Discount
	} else if bulk := ResolveBulkDiscount(quote.ItemCount, quote.Subtotal, in.BulkDiscounts); bulk != nil {
		quote.BulkDiscount = bulk
		quote.DiscountAmount = bulk.Amount
	}

	quote.Shipping = ComputeShipping(in.City, in.Rates)
	quote.Total = ComputeTotal(quote.Subtotal, quote.DiscountAmount, quote.Shipping)
	return quote, nil
}

func roundMoney(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
