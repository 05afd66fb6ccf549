package notifications

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
	"github.com/abhinavyadav-ai/asset-manager/pkg/outbox/payloads"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// OrderSummary is the order view the message templates render. It can be
// built from a stored order or from an order_created event.
type OrderSummary struct {
	OrderNumber    string
	CustomerName   string
	Phone          string
	Email          *string
	Items          []payloads.OrderLine
	Subtotal       decimal.Decimal
	DiscountCode   *string
	DiscountAmount decimal.Decimal
	Shipping       decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  enums.PaymentMethod
	PaymentStatus  enums.PaymentStatus
	Address        string
	City           string
	State          string
	Pincode        string
	CreatedAt      time.Time
}

func SummaryFromOrder(o models.Order) OrderSummary {
	lines := make([]payloads.OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, payloads.OrderLine{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}
	return OrderSummary{
		OrderNumber:    o.OrderNumber,
		CustomerName:   o.CustomerName,
		Phone:          o.Phone,
		Email:          o.Email,
		Items:          lines,
		Subtotal:       o.Subtotal,
		DiscountCode:   o.DiscountCode,
		DiscountAmount: o.DiscountAmount,
		Shipping:       o.Shipping,
		Total:          o.Total,
		PaymentMethod:  o.PaymentMethod,
		PaymentStatus:  o.PaymentStatus,
		Address:        o.Address,
		City:           o.City,
		State:          o.State,
		Pincode:        o.Pincode,
		CreatedAt:      o.CreatedAt,
	}
}

func SummaryFromEvent(e payloads.OrderCreatedEvent, occurredAt time.Time) OrderSummary {
	return OrderSummary{
		OrderNumber:    e.OrderNumber,
		CustomerName:   e.CustomerName,
		Phone:          e.Phone,
		Email:          e.Email,
		Items:          e.Items,
		Subtotal:       e.Subtotal,
		DiscountCode:   e.DiscountCode,
		DiscountAmount: e.DiscountAmount,
		Shipping:       e.Shipping,
		Total:          e.Total,
		PaymentMethod:  e.PaymentMethod,
		PaymentStatus:  e.PaymentStatus,
		Address:        e.Address,
		City:           e.City,
		State:          e.State,
		Pincode:        e.Pincode,
		CreatedAt:      occurredAt,
	}
}

// Formatter renders order messages and WhatsApp click-to-chat links.
type Formatter struct {
	storeName   string
	adminNumber string
	publicURL   string
}

func NewFormatter(storeName, adminWhatsApp, publicURL string) *Formatter {
	return &Formatter{
		storeName:   storeName,
		adminNumber: nonDigits.ReplaceAllString(adminWhatsApp, ""),
		publicURL:   strings.TrimRight(publicURL, "/"),
	}
}

// AdminOrderMessage is the new-order alert sent to the shop owner.
func (f *Formatter) AdminOrderMessage(o OrderSummary) string {
	var b strings.Builder
	b.WriteString("🕯️ *NEW ORDER RECEIVED!*\n\n")
	fmt.Fprintf(&b, "📦 *Order:* %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", o.CustomerName)
	fmt.Fprintf(&b, "📞 *Phone:* %s\n", o.Phone)
	if o.Email != nil && *o.Email != "" {
		fmt.Fprintf(&b, "📧 *Email:* %s\n", *o.Email)
	}

	items := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, fmt.Sprintf("%dx %s (₹%s)", item.Quantity, item.Name, lineTotal(item).StringFixed(0)))
	}
	fmt.Fprintf(&b, "\n🛒 *Items:*\n%s\n\n", strings.Join(items, "\n"))

	fmt.Fprintf(&b, "💰 *Subtotal:* ₹%s\n", o.Subtotal.StringFixed(2))
	if o.DiscountAmount.IsPositive() {
		code := ""
		if o.DiscountCode != nil {
			code = fmt.Sprintf(" (%s)", *o.DiscountCode)
		}
		fmt.Fprintf(&b, "🏷️ *Discount:* -₹%s%s\n", o.DiscountAmount.StringFixed(2), code)
	}
	fmt.Fprintf(&b, "🚚 *Shipping:* %s\n", shippingLabel(o.Shipping))
	fmt.Fprintf(&b, "\n✨ *TOTAL: ₹%s*\n\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "💳 *Payment:* %s\n", o.PaymentMethod.DisplayName())
	fmt.Fprintf(&b, "📋 *Status:* %s\n\n", o.PaymentStatus.Label())
	b.WriteString("📍 *Delivery Address:*\n")
	fmt.Fprintf(&b, "%s\n", o.Address)
	fmt.Fprintf(&b, "%s, %s - %s\n", o.City, o.State, o.Pincode)
	return b.String()
}

// CustomerInvoiceMessage is the invoice summary shared with the customer.
func (f *Formatter) CustomerInvoiceMessage(o OrderSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🕯️ *%s - ORDER INVOICE*\n\n", strings.ToUpper(f.storeName))
	b.WriteString("Thank you for your order! 🙏\n\n")
	fmt.Fprintf(&b, "📦 *Order Number:* %s\n", o.OrderNumber)
	fmt.Fprintf(&b, "📅 *Date:* %s\n\n", o.CreatedAt.Format("2/1/2006"))

	items := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, fmt.Sprintf("• %s x%d - ₹%s", item.Name, item.Quantity, lineTotal(item).StringFixed(0)))
	}
	fmt.Fprintf(&b, "🛒 *Your Items:*\n%s\n\n", strings.Join(items, "\n"))

	b.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "💰 Subtotal: ₹%s\n", o.Subtotal.StringFixed(2))
	if o.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "🏷️ Discount: -₹%s\n", o.DiscountAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "🚚 Shipping: %s\n", shippingLabel(o.Shipping))
	b.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Fprintf(&b, "✨ *TOTAL: ₹%s*\n\n", o.Total.StringFixed(2))
	fmt.Fprintf(&b, "💳 *Payment:* %s\n\n", o.PaymentMethod.DisplayName())
	b.WriteString("📍 *Delivery Address:*\n")
	fmt.Fprintf(&b, "%s\n%s\n", o.CustomerName, o.Address)
	fmt.Fprintf(&b, "%s, %s - %s\n\n", o.City, o.State, o.Pincode)
	fmt.Fprintf(&b, "📄 *View Invoice:* %s\n\n", f.InvoiceURL(o.OrderNumber))
	b.WriteString("For any queries, contact us!\n")
	fmt.Fprintf(&b, "Thank you for shopping with %s! 🕯️✨", f.storeName)
	return b.String()
}

// AdminLink opens a chat with the shop owner prefilled with the order alert.
func (f *Formatter) AdminLink(o OrderSummary) string {
	return WhatsAppLink(f.adminNumber, f.AdminOrderMessage(o))
}

// CustomerInvoiceLink opens a chat with the customer prefilled with the
// invoice summary.
func (f *Formatter) CustomerInvoiceLink(o OrderSummary) string {
	return WhatsAppLink(o.Phone, f.CustomerInvoiceMessage(o))
}

func (f *Formatter) InvoiceURL(orderNumber string) string {
	return fmt.Sprintf("%s/invoice/%s", f.publicURL, url.PathEscape(orderNumber))
}

// WhatsAppLink builds a wa.me click-to-chat URL. Non-digits are stripped from
// phone.
func WhatsAppLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", nonDigits.ReplaceAllString(phone, ""), url.QueryEscape(message))
}

func lineTotal(item payloads.OrderLine) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

func shippingLabel(shipping decimal.Decimal) string {
	if shipping.IsZero() {
		return "FREE"
	}
	return "₹" + shipping.StringFixed(2)
}
