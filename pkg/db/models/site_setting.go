package models

import "time"

// SiteSetting is a shop-owner editable key/value pair.
type SiteSetting struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `gorm:"column:key;not null;uniqueIndex"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteSetting) TableName() string { return "site_settings" }
