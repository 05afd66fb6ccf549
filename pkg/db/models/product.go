package models

import (
	"time"

	"github.com/shopspring/decimal"

	dbtypes "github.com/abhinavyadav-ai/asset-manager/pkg/db/types"
)

// Product is a candle in the catalog. Price and Stock are the authoritative
// values checkout re-reads before accepting an order.
type Product struct {
	ID            int64                     `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string                    `gorm:"column:name;not null"`
	Description   string                    `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal           `gorm:"column:price;type:numeric(10,2);not null"`
	CostPrice     *decimal.Decimal          `gorm:"column:cost_price;type:numeric(10,2)"`
	MarginPercent *decimal.Decimal          `gorm:"column:margin_percent;type:numeric(6,2)"`
	Stock         int                       `gorm:"column:stock;not null;default:0"`
	Category      string                    `gorm:"column:category;not null;default:''"`
	Images        dbtypes.JSONSlice[string] `gorm:"column:images;type:jsonb;not null"`
	IsActive      bool                      `gorm:"column:is_active;not null"`
	CreatedAt     time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
