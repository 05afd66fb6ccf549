package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// BulkDiscountRule is a quantity threshold. Inactive rules never apply.
type BulkDiscountRule struct {
	Name        string
	MinQuantity int
	Percent     decimal.Decimal
	Active      bool
}

// BulkDiscountResult is the threshold a cart qualified for and what it saves.
type BulkDiscountResult struct {
	Name        string          `json:"name"`
	MinQuantity int             `json:"minQuantity"`
	Percent     decimal.Decimal `json:"percent"`
	Amount      decimal.Decimal `json:"amount"`
}

// ResolveBulkDiscount picks the active rule with the largest MinQuantity that
// itemCount still meets. It matches by threshold, not by best saving, and
// never stacks rules. Returns nil when nothing qualifies.
func ResolveBulkDiscount(itemCount int, subtotal decimal.Decimal, rules []BulkDiscountRule) *BulkDiscountResult {
	var best *BulkDiscountRule
	for i := range rules {
		rule := &rules[i]
		if !rule.Active || itemCount < rule.MinQuantity {
			continue
		}
		if best == nil || rule.MinQuantity > best.MinQuantity {
			best = rule
		}
	}
	if best == nil {
		return nil
	}
	return &BulkDiscountResult{
		Name:        best.Name,
		MinQuantity: best.MinQuantity,
		Percent:     best.Percent,
		Amount:      roundMoney(subtotal.Mul(best.Percent).Div(hundred)),
	}
}
