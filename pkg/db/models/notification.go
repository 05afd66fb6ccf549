package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abhinavyadav-ai/asset-manager/pkg/enums"
)

// Notification is an entry in the admin inbox, written by the notification
// worker from order events.
type Notification struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	EventID     uuid.UUID              `gorm:"column:event_id;type:uuid;not null;uniqueIndex"`
	Type        enums.NotificationType `gorm:"column:type;not null"`
	OrderNumber string                 `gorm:"column:order_number;not null;index"`
	Title       string                 `gorm:"column:title;not null"`
	Message     string                 `gorm:"column:message;not null"`
	Link        *string                `gorm:"column:link"`
	ReadAt      *time.Time             `gorm:"column:read_at"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
