package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	CreditKindEarn       = "earn"
	CreditKindSpend      = "spend"
	CreditKindAdjustment = "adjustment"

	CreditCategoryDailyLogin         = "daily_login"
	CreditCategoryProfileCompletion  = "profile_completion"
	CreditCategoryContentInteraction = "content_interaction"
	CreditCategorySpecialEvent       = "special_event"
	CreditCategoryAdminAdjustment    = "admin_adjustment"
	CreditCategoryFeatureUsage       = "feature_usage"
	CreditCategoryOther              = "other"
)

// CreditBalance holds the current credit state for one user. Created lazily on
// the first credit-affecting event, never deleted.
// Invariant: Balance == TotalEarned - TotalSpent at every committed state.
type CreditBalance struct {
	UserID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	User                   *User      `gorm:"foreignKey:UserID" json:"-"`
	Balance                int        `gorm:"not null;default:0" json:"balance"`
	TotalEarned            int        `gorm:"not null;default:0" json:"total_earned"`
	TotalSpent             int        `gorm:"not null;default:0" json:"total_spent"`
	LastDailyLoginRewardAt *time.Time `json:"last_daily_login_reward_at,omitempty"`
	CreatedAt              time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreditTransaction is an append-only ledger entry. Amount is signed: positive
// for earn / positive adjustment, negative for spend / negative adjustment.
// BalanceAfter snapshots the balance immediately after applying this entry so
// the log can be audited without recomputation.
type CreditTransaction struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       uuid.UUID         `gorm:"type:uuid;index:idx_credit_user_date,priority:1;not null" json:"user_id"`
	User         *User             `gorm:"foreignKey:UserID" json:"-"`
	Kind         string            `gorm:"size:20;not null" json:"kind"`
	Amount       int               `gorm:"not null" json:"amount"`
	BalanceAfter int               `gorm:"not null" json:"balance_after"`
	Category     string            `gorm:"size:50;not null" json:"category"`
	Description  string            `gorm:"type:text" json:"description"`
	Metadata     map[string]string `gorm:"serializer:json;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time         `gorm:"index:idx_credit_user_date,priority:2" json:"created_at"`
}
