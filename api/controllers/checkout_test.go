package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/internal/checkout"
	"github.com/abhinavyadav-ai/asset-manager/internal/payments"
	"github.com/abhinavyadav-ai/asset-manager/internal/settings"
	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

type stubCheckout struct {
	got   checkout.FinalizeInput
	order *models.Order
	err   error
}

func (s *stubCheckout) FinalizeOrder(ctx context.Context, input checkout.FinalizeInput) (*models.Order, error) {
	s.got = input
	return s.order, s.err
}

type stubStorefront struct {
	settings.Service
	upi string
}

func (s stubStorefront) Storefront(ctx context.Context) (settings.Storefront, error) {
	return settings.Storefront{Name: "Luxe Candle", MerchantUPIID: s.upi}, nil
}

type stubGateway struct {
	payments.Service
	key *string
}

func (s stubGateway) Config() payments.GatewayConfig {
	return payments.GatewayConfig{Configured: s.key != nil, KeyID: s.key}
}

const checkoutBody = `{
	"customerName": "Asha Verma",
	"email": "asha@example.com",
	"phone": "9876543210",
	"address": "12 Lodhi Road",
	"city": "New Delhi",
	"state": "Delhi",
	"pincode": "110003",
	"items": [{"productId": 1, "name": "Vanilla Dream", "quantity": 2, "price": 1, "image": "/v.jpg"}],
	"subtotal": 2,
	"shipping": 0,
	"discountCode": "save10",
	"discountAmount": 1,
	"total": 1,
	"paymentMethod": "upi",
	"paymentStatus": "pending_verification",
	"status": "pending"
}`

func TestCreateOrder(t *testing.T) {
	logg := testLogger()

	t.Run("created with upi instructions", func(t *testing.T) {
		svc := &stubCheckout{order: &models.Order{
			ID:            9,
			OrderNumber:   "LUM-LOYW3V28-AB12",
			Total:         decimal.NewFromInt(1043),
			PaymentMethod: enums.PaymentMethodUPI,
			PaymentStatus: enums.PaymentStatusPendingVerification,
			Status:        enums.OrderStatusPending,
		}}
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		CreateOrder(svc, stubStorefront{upi: "luxe@upi"}, stubGateway{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.got.CouponCode != "save10" || svc.got.Items[0].Quantity != 2 || svc.got.Pincode != "110003" {
			t.Fatalf("unexpected finalize input %+v", svc.got)
		}

		var body struct {
			Order struct {
				OrderNumber string `json:"orderNumber"`
			} `json:"order"`
			Payment paymentInstructions `json:"payment"`
		}
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &body); err != nil {
			t.Fatalf("decode data: %v", err)
		}
		if body.Order.OrderNumber != "LUM-LOYW3V28-AB12" {
			t.Fatalf("unexpected order number %q", body.Order.OrderNumber)
		}
		if body.Payment.MerchantUPIID != "luxe@upi" || body.Payment.Status != enums.PaymentStatusPendingVerification {
			t.Fatalf("unexpected payment instructions %+v", body.Payment)
		}
	})

	t.Run("storefront body without a code", func(t *testing.T) {
		svc := &stubCheckout{order: &models.Order{OrderNumber: "LUM-LOYW3V28-CD34", PaymentMethod: enums.PaymentMethodUPI}}
		body := strings.Replace(checkoutBody, `"discountCode": "save10"`, `"discountCode": null`, 1)
		body = strings.Replace(body, `"asha@example.com"`, `""`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(svc, stubStorefront{}, stubGateway{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.got.CouponCode != "" {
			t.Fatalf("expected no coupon, got %q", svc.got.CouponCode)
		}
	})

	t.Run("business rejection keeps message", func(t *testing.T) {
		svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeValidation, "Insufficient stock for Vanilla Dream. Available: 1")}
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		CreateOrder(svc, stubStorefront{}, stubGateway{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if msg := decodeEnvelope(t, rec).Error.Message; msg != "Insufficient stock for Vanilla Dream. Available: 1" {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("invalid pincode rejected before finalize", func(t *testing.T) {
		svc := &stubCheckout{}
		body := strings.Replace(checkoutBody, `"110003"`, `"11A"`, 1)
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(svc, stubStorefront{}, stubGateway{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 got %d", rec.Code)
		}
		if svc.got.CustomerName != "" {
			t.Fatal("finalize should not run on invalid input")
		}
	})

	t.Run("infrastructure failure", func(t *testing.T) {
		svc := &stubCheckout{err: pkgerrors.Wrap(pkgerrors.CodeInternal, context.DeadlineExceeded, "Failed to create order")}
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody))
		rec := httptest.NewRecorder()
		CreateOrder(svc, stubStorefront{}, stubGateway{}, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500 got %d", rec.Code)
		}
		if msg := decodeEnvelope(t, rec).Error.Message; msg != "Failed to create order" {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}
