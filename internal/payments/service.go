// Package payments verifies online payment callbacks and settles the matching
// order.
package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
	"github.com/abhinavyadav-ai/asset-manager/pkg/logger"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox"
)

type orderPayer interface {
	MarkPaid(ctx context.Context, input orders.MarkPaidInput) (*orders.OrderDTO, error)
}

type Service interface {
	Config() GatewayConfig
	VerifyRazorpay(ctx context.Context, input VerifyInput) (*VerifyResult, error)
}

// GatewayConfig is what the storefront needs to open the checkout widget.
type GatewayConfig struct {
	Configured bool    `json:"configured"`
	KeyID      *string `json:"keyId"`
}

// VerifyInput is the gateway callback. OrderID is optional; when zero the
// signature is checked but no order changes.
type VerifyInput struct {
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	Signature        string `json:"razorpay_signature"`
	OrderID          int64  `json:"orderId"`
}

type VerifyResult struct {
	Verified  bool             `json:"verified"`
	PaymentID string           `json:"paymentId"`
	Order     *orders.OrderDTO `json:"order,omitempty"`
}

type service struct {
	cfg    config.PaymentsConfig
	orders orderPayer
	logg   *logger.Logger
}

func NewService(cfg config.PaymentsConfig, orderSvc orderPayer, logg *logger.Logger) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{cfg: cfg, orders: orderSvc, logg: logg}, nil
}

func (s *service) Config() GatewayConfig {
	out := GatewayConfig{Configured: s.cfg.RazorpayConfigured()}
	if key := strings.TrimSpace(s.cfg.RazorpayKeyID); key != "" {
		out.KeyID = &key
	}
	return out
}

func (s *service) VerifyRazorpay(ctx context.Context, input VerifyInput) (*VerifyResult, error) {
	if !s.cfg.RazorpayConfigured() {
		return nil, pkgerrors.New(pkgerrors.CodeUnavailable, "Razorpay is not configured")
	}
	gatewayOrderID := strings.TrimSpace(input.GatewayOrderID)
	paymentID := strings.TrimSpace(input.GatewayPaymentID)
	if gatewayOrderID == "" || paymentID == "" || strings.TrimSpace(input.Signature) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing payment verification data")
	}

	if !VerifySignature(s.cfg.RazorpayKeySecret, gatewayOrderID, paymentID, input.Signature) {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"gateway_order_id": gatewayOrderID,
				"order_id":         input.OrderID,
			}), "payment.signature_mismatch")
		}
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Payment verification failed")
	}

	result := &VerifyResult{Verified: true, PaymentID: paymentID}
	if input.OrderID <= 0 {
		return result, nil
	}
	order, err := s.orders.MarkPaid(ctx, orders.MarkPaidInput{
		OrderID:          input.OrderID,
		GatewayOrderID:   &gatewayOrderID,
		GatewayPaymentID: &paymentID,
		Actor:            &outbox.ActorRef{Source: "razorpay"},
	})
	if err != nil {
		return nil, err
	}
	result.Order = order
	return result, nil
}
