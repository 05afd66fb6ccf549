package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

type shippingForm struct {
	Phone    string          `json:"phone" validate:"required,phone"`
	Pincode  string          `json:"pincode" validate:"required,pincode"`
	Discount decimal.Decimal `json:"discount" validate:"gt=0,lte=100"`
}

func decodeForm(body string) error {
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	var form shippingForm
	return DecodeJSONBody(req, &form)
}

func TestDecodeJSONBodyAcceptsIndianAddress(t *testing.T) {
	if err := decodeForm(`{"phone":"+91 98765 43210","pincode":"110003","discount":"12.5"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDecodeJSONBodyFieldDetails(t *testing.T) {
	err := decodeForm(`{"phone":"12345","pincode":"011003","discount":"150"}`)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	want := map[string]string{
		"phone":    "must be a valid phone number",
		"pincode":  "must be a valid 6 digit pincode",
		"discount": "must be at most 100",
	}
	for field, msg := range want {
		if details[field] != msg {
			t.Fatalf("%s: expected %q, got %q", field, msg, details[field])
		}
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	err := decodeForm(`{"phone":"9876543210","pincode":"110003","discount":"5","total":"1"}`)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
