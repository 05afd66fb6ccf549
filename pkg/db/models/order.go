package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/abhinavyadav-ai/asset-manager/pkg/db/types"
	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// OrderItem is the line snapshot stored on the order.
type OrderItem struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// LineTotal is Price × Quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a placed order with server-computed money fields.
type Order struct {
	ID               int64                        `gorm:"column:id;primaryKey;autoIncrement"`
	OrderNumber      string                       `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName     string                       `gorm:"column:customer_name;not null"`
	Email            *string                      `gorm:"column:email"`
	Phone            string                       `gorm:"column:phone;not null"`
	Address          string                       `gorm:"column:address;not null"`
	City             string                       `gorm:"column:city;not null"`
	State            string                       `gorm:"column:state;not null"`
	Pincode          string                       `gorm:"column:pincode;not null"`
	Items            dbtypes.JSONSlice[OrderItem] `gorm:"column:items;type:jsonb;not null"`
	Subtotal         decimal.Decimal              `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Shipping         decimal.Decimal              `gorm:"column:shipping;type:numeric(10,2);not null;default:0"`
	DiscountCode     *string                      `gorm:"column:discount_code"`
	DiscountAmount   decimal.Decimal              `gorm:"column:discount_amount;type:numeric(10,2);not null;default:0"`
	Total            decimal.Decimal              `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod    enums.PaymentMethod          `gorm:"column:payment_method;not null"`
	PaymentStatus    enums.PaymentStatus          `gorm:"column:payment_status;not null"`
	GatewayOrderID   *string                      `gorm:"column:gateway_order_id"`
	GatewayPaymentID *string                      `gorm:"column:gateway_payment_id"`
	Status           enums.OrderStatus            `gorm:"column:status;not null"`
	TrackingNumber   *string                      `gorm:"column:tracking_number"`
	DeliveryPartner  *string                      `gorm:"column:delivery_partner"`
	CreatedAt        time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }
