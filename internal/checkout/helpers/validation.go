package helpers

import (
	"regexp"
	"strings"

	pkgerrors "github.com/abhinavyadav-ai/asset-manager/pkg/errors"
)

var (
	phonePattern   = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	phoneSpacing   = strings.NewReplacer(" ", "", "-", "")
	pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)
)

// Customer is the contact and delivery block of a checkout.
type Customer struct {
	Name    string
	Email   *string
	Phone   string
	Address string
	City    string
	State   string
	Pincode string
}

// ValidPhone accepts 10 to 15 digits with an optional leading plus once
// spaces and dashes are removed.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phoneSpacing.Replace(strings.TrimSpace(phone)))
}

// NormalizeCustomer trims every field and drops a blank email.
func NormalizeCustomer(c Customer) Customer {
	out := Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Address: strings.TrimSpace(c.Address),
		City:    strings.TrimSpace(c.City),
		State:   strings.TrimSpace(c.State),
		Pincode: strings.TrimSpace(c.Pincode),
	}
	if c.Email != nil {
		if email := strings.TrimSpace(*c.Email); email != "" {
			out.Email = &email
		}
	}
	return out
}

// ValidateCustomer reports the first missing or malformed field.
func ValidateCustomer(c Customer) error {
	required := []struct {
		field, value string
	}{
		{"customerName", c.Name},
		{"phone", c.Phone},
		{"address", c.Address},
		{"city", c.City},
		{"state", c.State},
		{"pincode", c.Pincode},
	}
	for _, r := range required {
		if r.value == "" {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", r.field).
				WithDetails(map[string]any{"field": r.field})
		}
	}
	if !ValidPhone(c.Phone) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid phone number").
			WithDetails(map[string]any{"field": "phone"})
	}
	if !pincodePattern.MatchString(c.Pincode) {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid pincode").
			WithDetails(map[string]any{"field": "pincode"})
	}
	return nil
}

// ValidateLines rejects an empty cart and non-positive quantities.
func ValidateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Cart is empty")
	}
	for _, line := range lines {
		if line.ProductID <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
		if line.Quantity <= 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "Quantity for %s must be at least 1", displayName(line))
		}
	}
	return nil
}

func displayName(line LineRequest) string {
	if name := strings.TrimSpace(line.Name); name != "" {
		return name
	}
	return "item"
}
