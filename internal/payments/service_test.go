package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinavyadav-ai/asset-manager/internal/orders"
	"github.com/abhinavyadav-ai/asset-manager/pkg/config"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

type recordingPayer struct {
	calls []orders.MarkPaidInput
}

func (r *recordingPayer) MarkPaid(_ context.Context, input orders.MarkPaidInput) (*orders.OrderDTO, error) {
	r.calls = append(r.calls, input)
	return &orders.OrderDTO{ID: input.OrderID, PaymentStatus: enums.PaymentStatusPaid}, nil
}

var gatewayCfg = config.PaymentsConfig{RazorpayKeyID: "rzp_test_key", RazorpayKeySecret: "shh"}

func TestSignatureRoundTrip(t *testing.T) {
	sig := Sign("shh", "order_ABC", "pay_123")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature("shh", "order_ABC", "pay_123", sig))
	assert.False(t, VerifySignature("other", "order_ABC", "pay_123", sig))
	assert.False(t, VerifySignature("shh", "order_ABC", "pay_124", sig))
}

func TestVerifyRazorpayMarksOrderPaid(t *testing.T) {
	payer := &recordingPayer{}
	svc, err := NewService(gatewayCfg, payer, nil)
	require.NoError(t, err)

	res, err := svc.VerifyRazorpay(context.Background(), VerifyInput{
		GatewayOrderID:   "order_ABC",
		GatewayPaymentID: "pay_123",
		Signature:        Sign("shh", "order_ABC", "pay_123"),
		OrderID:          42,
	})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "pay_123", res.PaymentID)
	require.Len(t, payer.calls, 1)
	assert.Equal(t, int64(42), payer.calls[0].OrderID)
	assert.Equal(t, "pay_123", *payer.calls[0].GatewayPaymentID)
	assert.Equal(t, "order_ABC", *payer.calls[0].GatewayOrderID)
}

func TestVerifyRazorpayWithoutOrderOnlyChecksSignature(t *testing.T) {
	payer := &recordingPayer{}
	svc, err := NewService(gatewayCfg, payer, nil)
	require.NoError(t, err)

	res, err := svc.VerifyRazorpay(context.Background(), VerifyInput{
		GatewayOrderID:   "order_ABC",
		GatewayPaymentID: "pay_123",
		Signature:        Sign("shh", "order_ABC", "pay_123"),
	})
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Empty(t, payer.calls)
}

func TestVerifyRazorpayFailures(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.PaymentsConfig
		input   VerifyInput
		code    pkgerrors.Code
		message string
	}{
		{
			name:    "not configured",
			input:   VerifyInput{GatewayOrderID: "order_ABC", GatewayPaymentID: "pay_123", Signature: "x", OrderID: 1},
			code:    pkgerrors.CodeUnavailable,
			message: "Razorpay is not configured",
		},
		{
			name:    "missing data",
			cfg:     gatewayCfg,
			input:   VerifyInput{GatewayOrderID: "order_ABC", OrderID: 1},
			code:    pkgerrors.CodeValidation,
			message: "Missing payment verification data",
		},
		{
			name:    "signature mismatch",
			cfg:     gatewayCfg,
			input:   VerifyInput{GatewayOrderID: "order_ABC", GatewayPaymentID: "pay_123", Signature: Sign("wrong", "order_ABC", "pay_123"), OrderID: 1},
			code:    pkgerrors.CodeValidation,
			message: "Payment verification failed",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payer := &recordingPayer{}
			svc, err := NewService(tc.cfg, payer, nil)
			require.NoError(t, err)

			_, err = svc.VerifyRazorpay(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
			assert.Equal(t, tc.message, typed.Message())
			assert.Empty(t, payer.calls, "payment status must not change")
		})
	}
}

func TestConfigReportsKey(t *testing.T) {
	svc, err := NewService(gatewayCfg, &recordingPayer{}, nil)
	require.NoError(t, err)
	cfg := svc.Config()
	assert.True(t, cfg.Configured)
	require.NotNil(t, cfg.KeyID)
	assert.Equal(t, "rzp_test_key", *cfg.KeyID)

	empty, err := NewService(config.PaymentsConfig{}, &recordingPayer{}, nil)
	require.NoError(t, err)
	assert.False(t, empty.Config().Configured)
	assert.Nil(t, empty.Config().KeyID)
}
