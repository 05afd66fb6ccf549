package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod is how the customer chose to pay at checkout.
type PaymentMethod string

const (
	PaymentMethodUPI      PaymentMethod = "upi"
	PaymentMethodRazorpay PaymentMethod = "razorpay"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodUPI,
	PaymentMethodRazorpay,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the method is supported.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// DisplayName is the human readable name shown on invoices and notifications.
func (m PaymentMethod) DisplayName() string {
	switch m {
	case PaymentMethodUPI:
		return "UPI Direct Payment"
	case PaymentMethodRazorpay:
		return "Razorpay Online"
	default:
		return string(m)
	}
}

// InitialPaymentStatus is the payment status a freshly placed order starts in.
// Direct UPI transfers wait for a manual check, gateway payments wait for the
// signed callback.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentMethodUPI {
		return PaymentStatusPendingVerification
	}
	return PaymentStatusPending
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validPaymentMethods {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
