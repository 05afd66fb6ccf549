package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type FlashSale struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string          `gorm:"column:title;not null"`
	Description     string          `gorm:"column:description;not null;default:''"`
	BannerImage     *string         `gorm:"column:banner_image"`
	DiscountPercent decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2);not null"`
	StartDate       time.Time       `gorm:"column:start_date;not null"`
	EndDate         time.Time       `gorm:"column:end_date;not null"`
	IsActive        bool            `gorm:"column:is_active;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (FlashSale) TableName() string { return "flash_sales" }

// LiveAt reports whether the sale is active and now falls inside its window.
func (f FlashSale) LiveAt(now time.Time) bool {
	if !f.IsActive {
		return false
	}
	return !now.Before(f.StartDate) && !now.After(f.EndDate)
}
