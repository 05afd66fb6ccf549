package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// AdminUser is a back-office account.
type AdminUser struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Username     string          `gorm:"column:username;not null;uniqueIndex"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.AdminRole `gorm:"column:role;not null"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (AdminUser) TableName() string { return "admin_users" }

func (u *AdminUser) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
