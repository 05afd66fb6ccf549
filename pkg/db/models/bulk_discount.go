package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BulkDiscount is a quantity threshold that earns a percentage off the cart.
type BulkDiscount struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string          `gorm:"column:name;not null"`
	MinQuantity     int             `gorm:"column:min_quantity;not null"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (BulkDiscount) TableName() string { return "bulk_discounts" }
