package payloads

import (
	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// OrderLine is the item summary carried on order events.
type OrderLine struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderCreatedEvent is queued by checkout when an order is finalized.
type OrderCreatedEvent struct {
	OrderID        int64               `json:"orderId"`
	OrderNumber    string              `json:"orderNumber"`
	CustomerName   string              `json:"customerName"`
	Email          *string             `json:"email,omitempty"`
	Phone          string              `json:"phone"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	State          string              `json:"state"`
	Pincode        string              `json:"pincode"`
	Items          []OrderLine         `json:"items"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	DiscountCode   *string             `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal     `json:"discountAmount"`
	Shipping       decimal.Decimal     `json:"shipping"`
	Total          decimal.Decimal     `json:"total"`
	PaymentMethod  enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus  enums.PaymentStatus `json:"paymentStatus"`
}

// OrderStatusChangedEvent is queued when an admin moves an order along.
type OrderStatusChangedEvent struct {
	OrderID         int64             `json:"orderId"`
	OrderNumber     string            `json:"orderNumber"`
	CustomerName    string            `json:"customerName"`
	Phone           string            `json:"phone"`
	From            enums.OrderStatus `json:"from"`
	To              enums.OrderStatus `json:"to"`
	TrackingNumber  *string           `json:"trackingNumber,omitempty"`
	DeliveryPartner *string           `json:"deliveryPartner,omitempty"`
}

// OrderPaidEvent is queued when a payment is verified or marked paid.
type OrderPaidEvent struct {
	OrderID       int64               `json:"orderId"`
	OrderNumber   string              `json:"orderNumber"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"paymentMethod"`
	PaymentID     *string             `json:"paymentId,omitempty"`
}
