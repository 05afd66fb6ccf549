package helpers

import (
	"testing"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

func TestMergeLines(t *testing.T) {
	t.Parallel()
	merged := MergeLines([]LineRequest{
		{ProductID: 1, Name: "Vanilla", Quantity: 1},
		{ProductID: 2, Name: "Rose", Quantity: 2},
		{ProductID: 1, Name: "Vanilla again", Quantity: 3},
	})
	if len(merged) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(merged))
	}
	if merged[0].ProductID != 1 || merged[0].Quantity != 4 || merged[0].Name != "Vanilla" {
		t.Fatalf("unexpected merged line %+v", merged[0])
	}
	if ids := ProductIDs(merged); len(ids) != 2 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestValidateLines(t *testing.T) {
	t.Parallel()
	err := ValidateLines(nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) || pkgerrors.As(err).Message() != "Cart is empty" {
		t.Fatalf("expected empty cart error, got %v", err)
	}
	if err := ValidateLines([]LineRequest{{ProductID: 1, Name: "Rose", Quantity: 0}}); err == nil {
		t.Fatal("expected quantity error")
	}
	if err := ValidateLines([]LineRequest{{ProductID: 1, Quantity: 2}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateCustomer(t *testing.T) {
	t.Parallel()
	email := "  "
	valid := NormalizeCustomer(Customer{
		Name: " Asha ", Email: &email, Phone: "+91 98765 43210",
		Address: "12 Lodhi Road", City: "New Delhi", State: "Delhi", Pincode: "110003",
	})
	if valid.Email != nil {
		t.Fatal("blank email should be dropped")
	}
	if valid.Name != "Asha" {
		t.Fatalf("expected trimmed name, got %q", valid.Name)
	}
	if err := ValidateCustomer(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missingCity := valid
	missingCity.City = ""
	if err := ValidateCustomer(missingCity); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	badPin := valid
	badPin.Pincode = "01234"
	if err := ValidateCustomer(badPin); err == nil {
		t.Fatal("expected pincode error")
	}
}

func TestValidPhone(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"9876543210":       true,
		"+91 98765 43210":  true,
		"+91-98765-43210":  true,
		"98765 4321":       false,
		"12345":            false,
		"+1234567890123456": false,
		"98765O43210":      false,
	}
	for phone, want := range cases {
		if got := ValidPhone(phone); got != want {
			t.Errorf("ValidPhone(%q) = %v, want %v", phone, got, want)
		}
	}
}
