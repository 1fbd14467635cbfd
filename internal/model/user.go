package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AccountStatusActive      = "active"
	AccountStatusSuspended   = "suspended"
	AccountStatusDeactivated = "deactivated"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username      string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"size:255;not null" json:"-"`
	RoleID        *uint     `json:"role_id"`
	Role          Role      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	AccountStatus string    `gorm:"size:20;not null;default:active" json:"account_status"`
	AvatarURL     *string   `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	Profile       *Profile  `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Profile struct {
	UserID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName          string    `gorm:"size:100;not null" json:"full_name"`
	Bio               *string   `gorm:"type:text" json:"bio,omitempty"`
	Website           *string   `gorm:"size:255" json:"website,omitempty"`
	Location          *string   `gorm:"size:100" json:"location,omitempty"`
	Skills            *string   `gorm:"type:text" json:"skills,omitempty"`
	ContentSources    []string  `gorm:"serializer:json;type:jsonb" json:"content_sources,omitempty"`
	ContentCategories []string  `gorm:"serializer:json;type:jsonb" json:"content_categories,omitempty"`
	// CompletionPercentage is recalculated on every profile save; milestones
	// fire when it crosses a threshold upward.
	CompletionPercentage int       `gorm:"default:0" json:"completion_percentage"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
