package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
)

type bulkRuleSource interface {
	ActiveRules(ctx context.Context) ([]pricing.BulkDiscountRule, error)
}

type couponSource interface {
	Rule(ctx context.Context, code string) (*pricing.Coupon, error)
}

type shippingRateSource interface {
	ShippingRates(ctx context.Context) (pricing.ShippingRates, error)
}

// Service prices a shopper's local cart for display. Nothing is persisted and
// the checkout path prices the order again from authoritative data.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
}

// QuoteInput is the cart as the browser holds it.
type QuoteInput struct {
	Items      []pricing.LineItem
	City       string
	CouponCode string
}

// CouponError explains why an entered coupon was not applied.
type CouponError struct {
	Code    string `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// QuoteResult is the priced cart. When the entered coupon fails, the quote is
// priced with no discount at all and CouponError says why.
type QuoteResult struct {
	pricing.Quote
	DiscountCode *string      `json:"discountCode,omitempty"`
	CouponError  *CouponError `json:"couponError,omitempty"`
}

type service struct {
	bulk    bulkRuleSource
	coupons couponSource
	rates   shippingRateSource
	now     func() time.Time
}

func NewService(bulk bulkRuleSource, coupons couponSource, rates shippingRateSource, now func() time.Time) (Service, error) {
	if bulk == nil {
		return nil, fmt.Errorf("bulk discount source required")
	}
	if coupons == nil {
		return nil, fmt.Errorf("coupon source required")
	}
	if rates == nil {
		return nil, fmt.Errorf("shipping rate source required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{bulk: bulk, coupons: coupons, rates: rates, now: now}, nil
}

func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	for _, item := range input.Items {
		if item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must not be negative")
		}
	}

	rates, err := s.rates.ShippingRates(ctx)
	if err != nil {
		return nil, err
	}

	quoteInput := pricing.QuoteInput{
		Items:      input.Items,
		City:       input.City,
		CouponCode: input.CouponCode,
		Rates:      rates,
		Now:        s.now(),
	}
	if pricing.NormalizeCode(input.CouponCode) == "" {
		rules, err := s.bulk.ActiveRules(ctx)
		if err != nil {
			return nil, err
		}
		quoteInput.BulkDiscounts = rules
	} else {
		coupon, err := s.coupons.Rule(ctx, input.CouponCode)
		if err != nil {
			return nil, err
		}
		quoteInput.Coupon = coupon
	}

	quote, err := pricing.BuildQuote(quoteInput)
	if err == nil {
		return &QuoteResult{Quote: quote, DiscountCode: quote.DiscountCode()}, nil
	}

	var rejection *pricing.CouponRejection
	if !errors.As(err, &rejection) {
		return nil, err
	}

	// Entered but unusable coupon: price without any discount.
	quoteInput.CouponCode = ""
	quoteInput.Coupon = nil
	quoteInput.BulkDiscounts = nil
	plain, err := pricing.BuildQuote(quoteInput)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		Quote: plain,
		CouponError: &CouponError{
			Code:    rejection.Code,
			Reason:  string(rejection.Reason),
			Message: rejection.Message,
		},
	}, nil
}
