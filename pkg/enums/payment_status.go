package enums

import "fmt"

// PaymentStatus tracks whether an order has been paid for.
type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "pending"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusPaid                PaymentStatus = "paid"
	PaymentStatusFailed              PaymentStatus = "failed"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPendingVerification,
	PaymentStatusPaid,
	PaymentStatusFailed,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns the wording used in customer and admin messages.
func (p PaymentStatus) Label() string {
	if p == PaymentStatusPendingVerification {
		return "Payment Pending Verification"
	}
	return string(p)
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
