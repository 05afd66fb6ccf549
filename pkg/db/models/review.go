package models

import "time"

type Review struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID    int64     `gorm:"column:product_id;not null;index"`
	CustomerName string    `gorm:"column:customer_name;not null"`
	Email        *string   `gorm:"column:email"`
	Rating       int       `gorm:"column:rating;not null"`
	Comment      string    `gorm:"column:comment;not null;default:''"`
	IsApproved   bool      `gorm:"column:is_approved;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Review) TableName() string { return "reviews" }
