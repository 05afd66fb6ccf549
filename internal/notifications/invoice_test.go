package notifications

import (
	"strings"
	"testing"
)

func TestRenderInvoice(t *testing.T) {
	order := sampleOrder()
	order.CustomerName = `Asha <script>alert(1)</script>`

	var b strings.Builder
	if err := testFormatter().RenderInvoice(&b, order); err != nil {
		t.Fatalf("render: %v", err)
	}
	page := b.String()

	for _, want := range []string{
		"Invoice <strong>LUM-ABC123-XY12</strong> &middot; 7 Mar 2026",
		"<td>Vanilla Bean</td><td class=\"num\">2</td><td class=\"num\">₹24.99</td><td class=\"num\">₹49.98</td>",
		"Discount (SAVE10)",
		"-₹8.00",
		"<td class=\"num\">FREE</td>",
		"<td class=\"num\">₹71.98</td>",
		"Payment: UPI",
		"New Delhi, Delhi - 110003",
		"asha@example.com",
	} {
		if !strings.Contains(page, want) {
			t.Fatalf("invoice missing %q:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<script>") {
		t.Fatal("customer name was not escaped")
	}
}
