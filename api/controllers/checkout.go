package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/api/responses"
	"github.com/abhinavyadav-ai/asset-manager/api/validators"
	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/internal/settings"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
)

type checkoutItemRequest struct {
	ProductID int64            `json:"productId" validate:"required"`
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity" validate:"required,gte=1"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	Image     string           `json:"image,omitempty"`
}

// createOrderRequest is the checkout form. The storefront also sends its own
// price, subtotal, shipping, discount, total and status values; they are
// accepted and never read.
type createOrderRequest struct {
	CustomerName  string                `json:"customerName" validate:"required,max=200"`
	Email         string                `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string                `json:"phone" validate:"required,phone"`
	Address       string                `json:"address" validate:"required,max=500"`
	City          string                `json:"city" validate:"required,max=100"`
	State         string                `json:"state" validate:"required,max=100"`
	Pincode       string                `json:"pincode" validate:"required,pincode"`
	Items         []checkoutItemRequest `json:"items" validate:"dive"`
	PaymentMethod string                `json:"paymentMethod" validate:"required"`
	DiscountCode  *string               `json:"discountCode,omitempty"`

	Subtotal       *decimal.Decimal `json:"subtotal,omitempty"`
	Shipping       *decimal.Decimal `json:"shipping,omitempty"`
	DiscountAmount *decimal.Decimal `json:"discountAmount,omitempty"`
	Total          *decimal.Decimal `json:"total,omitempty"`
	PaymentStatus  *string          `json:"paymentStatus,omitempty"`
	Status         *string          `json:"status,omitempty"`
}

func (p createOrderRequest) email() *string {
	if p.Email == "" {
		return nil
	}
	return &p.Email
}

func (p createOrderRequest) couponCode() string {
	if p.DiscountCode == nil {
		return ""
	}
	return *p.DiscountCode
}

// paymentInstructions tell the storefront how to collect the money for the
// order it just placed.
type paymentInstructions struct {
	Method        enums.PaymentMethod `json:"method"`
	Status        enums.PaymentStatus `json:"status"`
	MerchantUPIID string              `json:"merchantUpiId,omitempty"`
	RazorpayKeyID *string             `json:"razorpayKeyId,omitempty"`
}

type createOrderResponse struct {
	Order   orders.OrderDTO     `json:"order"`
	Payment paymentInstructions `json:"payment"`
}

// CreateOrder finalizes a storefront order. Prices, discounts and totals are
// recomputed from the catalog inside one transaction.
func CreateOrder(svc checkout.Service, store settings.Service, gateway payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]checkout.ItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, checkout.ItemInput{
				ProductID: item.ProductID,
				Name:      item.Name,
				Quantity:  item.Quantity,
			})
		}

		order, err := svc.FinalizeOrder(r.Context(), checkout.FinalizeInput{
			CustomerName:  payload.CustomerName,
			Email:         payload.email(),
			Phone:         payload.Phone,
			Address:       payload.Address,
			City:          payload.City,
			State:         payload.State,
			Pincode:       payload.Pincode,
			Items:         items,
			PaymentMethod: payload.PaymentMethod,
			CouponCode:    payload.couponCode(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithOrderNumber(ctx, order.OrderNumber)
		}
		instructions := paymentInstructions{Method: order.PaymentMethod, Status: order.PaymentStatus}
		switch order.PaymentMethod {
		case enums.PaymentMethodUPI:
			// The order already exists; a settings hiccup only costs the UPI id.
			if storefront, err := store.Storefront(ctx); err == nil {
				instructions.MerchantUPIID = storefront.MerchantUPIID
			} else if logg != nil {
				logg.Warn(ctx, "storefront settings unavailable for payment instructions")
			}
		case enums.PaymentMethodRazorpay:
			instructions.RazorpayKeyID = gateway.Config().KeyID
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, createOrderResponse{
			Order:   orders.ToDTO(*order),
			Payment: instructions,
		})
	}
}
