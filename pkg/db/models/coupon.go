package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// Coupon is a redeemable discount code. Code is stored upper-case.
type Coupon struct {
	ID            int64              `gorm:"column:id;primaryKey;autoIncrement"`
	Code          string             `gorm:"column:code;not null;uniqueIndex"`
	DiscountType  enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue decimal.Decimal    `gorm:"column:discount_value;type:numeric(10,2);not null"`
	MinOrderValue decimal.Decimal    `gorm:"column:min_order_value;type:numeric(10,2);not null;default:0"`
	MaxDiscount   *decimal.Decimal   `gorm:"column:max_discount;type:numeric(10,2)"`
	UsageLimit    *int               `gorm:"column:usage_limit"`
	UsedCount     int                `gorm:"column:used_count;not null;default:0"`
	IsActive      bool               `gorm:"column:is_active;not null"`
	ExpiresAt     *time.Time         `gorm:"column:expires_at"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (Coupon) TableName() string { return "coupons" }
