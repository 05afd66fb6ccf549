package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/db/models"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// OrderItemDTO is a line snapshot as shown on the order.
type OrderItemDTO struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderDTO is the order payload returned to the admin panel and, by order
// number, to the customer.
type OrderDTO struct {
	ID               int64               `json:"id"`
	OrderNumber      string              `json:"orderNumber"`
	CustomerName     string              `json:"customerName"`
	Email            *string             `json:"email,omitempty"`
	Phone            string              `json:"phone"`
	Address          string              `json:"address"`
	City             string              `json:"city"`
	State            string              `json:"state"`
	Pincode          string              `json:"pincode"`
	Items            []OrderItemDTO      `json:"items"`
	Subtotal         decimal.Decimal     `json:"subtotal"`
	Shipping         decimal.Decimal     `json:"shipping"`
	DiscountCode     *string             `json:"discountCode,omitempty"`
	DiscountAmount   decimal.Decimal     `json:"discountAmount"`
	Total            decimal.Decimal     `json:"total"`
	PaymentMethod    enums.PaymentMethod `json:"paymentMethod"`
	PaymentStatus    enums.PaymentStatus `json:"paymentStatus"`
	GatewayOrderID   *string             `json:"razorpayOrderId,omitempty"`
	GatewayPaymentID *string             `json:"razorpayPaymentId,omitempty"`
	Status           enums.OrderStatus   `json:"status"`
	TrackingNumber   *string             `json:"trackingNumber,omitempty"`
	DeliveryPartner  *string             `json:"deliveryPartner,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// InvoiceLinks is what the admin needs to share an invoice with a customer.
type InvoiceLinks struct {
	InvoiceURL          string  `json:"invoiceUrl"`
	CustomerWhatsAppURL string  `json:"customerWhatsAppUrl"`
	CustomerPhone       string  `json:"customerPhone"`
	CustomerEmail       *string `json:"customerEmail,omitempty"`
}

// ToDTO renders a stored order.
func ToDTO(o models.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			LineTotal: item.LineTotal(),
		})
	}
	return OrderDTO{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		CustomerName:     o.CustomerName,
		Email:            o.Email,
		Phone:            o.Phone,
		Address:          o.Address,
		City:             o.City,
		State:            o.State,
		Pincode:          o.Pincode,
		Items:            items,
		Subtotal:         o.Subtotal,
		Shipping:         o.Shipping,
		DiscountCode:     o.DiscountCode,
		DiscountAmount:   o.DiscountAmount,
		Total:            o.Total,
		PaymentMethod:    o.PaymentMethod,
		PaymentStatus:    o.PaymentStatus,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID,
		Status:           o.Status,
		TrackingNumber:   o.TrackingNumber,
		DeliveryPartner:  o.DeliveryPartner,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}
