package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeCredit     = "credit"
	NotificationTypeModeration = "moderation"
	NotificationTypeSystem     = "system"

	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

type Notification struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"` // User who receives the notification
	Type              string     `gorm:"type:varchar(50);not null" json:"type"`
	Title             string     `gorm:"type:varchar(255)" json:"title"`
	Message           string     `gorm:"type:text" json:"message"`
	Priority          string     `gorm:"type:varchar(20);not null;default:normal" json:"priority"`
	RelatedEntityID   *uuid.UUID `gorm:"type:uuid" json:"related_entity_id,omitempty"`
	RelatedEntityType string     `gorm:"type:varchar(50)" json:"related_entity_type,omitempty"`
	IsRead            bool       `gorm:"default:false" json:"is_read"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}
