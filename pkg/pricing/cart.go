package pricing

import "github.com/shopspring/decimal"

// LineItem is one product in a cart. UnitPrice is the snapshot taken when the
// item was added.
type LineItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Total returns UnitPrice × Quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered set of line items keyed by product id.
type Cart struct {
	items []LineItem
}

// NewCart builds a cart by adding each item in order, merging duplicates.
func NewCart(items ...LineItem) *Cart {
	c := &Cart{}
	for _, item := range items {
		c.AddItem(item)
	}
	return c
}

// AddItem appends item, or adds its quantity to the existing line for the same
// product. The existing line keeps its name and price snapshot. Items with a
// non-positive quantity are ignored.
func (c *Cart) AddItem(item LineItem) {
	if item.Quantity <= 0 {
		return
	}
	if idx := c.indexOf(item.ProductID); idx >= 0 {
		c.items[idx].Quantity += item.Quantity
		return
	}
	c.items = append(c.items, item)
}

// RemoveItem drops the line for productID if present.
func (c *Cart) RemoveItem(productID int64) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero or
// less removes it.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(productID)
		return
	}
	if idx := c.indexOf(productID); idx >= 0 {
		c.items[idx].Quantity = quantity
	}
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// ItemCount is the sum of quantities.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Subtotal is the sum of unit price × quantity.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Total())
	}
	return total
}

func (c *Cart) indexOf(productID int64) int {
	for i, item := range c.items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
