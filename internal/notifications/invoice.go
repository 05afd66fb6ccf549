package notifications

import (
	"html/template"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money":    func(d decimal.Decimal) string { return "₹" + d.StringFixed(2) },
	"shipping": shippingLabel,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Invoice {{.Order.OrderNumber}} | {{.Store}}</title>
<style>
body{font-family:Georgia,serif;max-width:720px;margin:2rem auto;padding:0 1rem;color:#2d2418}
table{width:100%;border-collapse:collapse}th,td{padding:.5rem;border-bottom:1px solid #e6dccd;text-align:left}
td.num,th.num{text-align:right}.total{font-weight:bold;font-size:1.1rem}
</style>
</head>
<body>
<h1>{{.Store}}</h1>
<p>Invoice <strong>{{.Order.OrderNumber}}</strong> &middot; {{.Order.CreatedAt.Format "2 Jan 2006"}}</p>
<h2>Billed to</h2>
<p>{{.Order.CustomerName}}<br>{{.Order.Address}}<br>{{.Order.City}}, {{.Order.State}} - {{.Order.Pincode}}<br>{{.Order.Phone}}{{with .Order.Email}}<br>{{.}}{{end}}</p>
<table>
<thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Amount</th></tr></thead>
<tbody>
{{range .Lines}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .Price}}</td><td class="num">{{money .Amount}}</td></tr>
{{end}}</tbody>
</table>
<table>
<tr><td>Subtotal</td><td class="num">{{money .Order.Subtotal}}</td></tr>
{{if .Order.DiscountAmount.IsPositive}}<tr><td>Discount{{with .Order.DiscountCode}} ({{.}}){{end}}</td><td class="num">-{{money .Order.DiscountAmount}}</td></tr>
{{end}}<tr><td>Shipping</td><td class="num">{{shipping .Order.Shipping}}</td></tr>
<tr class="total"><td>Total</td><td class="num">{{money .Order.Total}}</td></tr>
</table>
<p>Payment: {{.Order.PaymentMethod.DisplayName}} ({{.Order.PaymentStatus.Label}})</p>
<p>Thank you for shopping with {{.Store}}!</p>
</body>
</html>
`))

type invoiceLine struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Amount   decimal.Decimal
}

// RenderInvoice writes the printable invoice page served at InvoiceURL.
// Customer supplied fields are HTML escaped.
func (f *Formatter) RenderInvoice(w io.Writer, o OrderSummary) error {
	lines := make([]invoiceLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, invoiceLine{Name: item.Name, Quantity: item.Quantity, Price: item.Price, Amount: lineTotal(item)})
	}
	return invoiceTemplate.Execute(w, struct {
		Store string
		Order OrderSummary
		Lines []invoiceLine
	}{Store: strings.TrimSpace(f.storeName), Order: o, Lines: lines})
}
