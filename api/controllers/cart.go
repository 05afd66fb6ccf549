package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/cart"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/pricing"
)

type cartLineRequest struct {
	ProductID int64           `json:"productId" validate:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	Image     string          `json:"image,omitempty"`
}

type cartQuoteRequest struct {
	Items      []cartLineRequest `json:"items" validate:"dive"`
	City       string            `json:"city"`
	CouponCode string            `json:"couponCode"`
}

// QuoteCart prices the browser-held cart for the cart and checkout pages.
// The result is a preview; order placement prices everything again.
func QuoteCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload cartQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]pricing.LineItem, 0, len(payload.Items))
		for _, line := range payload.Items {
			items = append(items, pricing.LineItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				UnitPrice: line.Price,
				Quantity:  line.Quantity,
			})
		}

		quote, err := svc.Quote(r.Context(), cart.QuoteInput{
			Items:      items,
			City:       payload.City,
			CouponCode: payload.CouponCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
