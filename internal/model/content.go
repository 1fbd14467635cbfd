package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SourceTwitter  = "twitter"
	SourceReddit   = "reddit"
	SourceLinkedIn = "linkedin"

	ContentTypePost    = "post"
	ContentTypeTweet   = "tweet"
	ContentTypeArticle = "article"
	ContentTypeComment = "comment"
	ContentTypeOther   = "other"
)

type Engagement struct {
	Likes           int `gorm:"default:0" json:"likes"`
	Comments        int `gorm:"default:0" json:"comments"`
	Shares          int `gorm:"default:0" json:"shares"`
	TotalEngagement int `gorm:"default:0;index" json:"total_engagement"`
}

// Content is the canonical representation of one ingested item.
// (Source, SourceID) is globally unique; refreshes update engagement and
// cache expiration only, descriptive fields keep their first-captured values.
type Content struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Source           string            `gorm:"size:20;uniqueIndex:idx_source_source_id,priority:1;not null" json:"source"`
	SourceID         string            `gorm:"size:100;uniqueIndex:idx_source_source_id,priority:2;not null" json:"source_id"`
	SourceUsername   string            `gorm:"size:100" json:"source_username"`
	SourceName       string            `gorm:"size:100" json:"source_name"`
	ContentType      string            `gorm:"size:20;not null;default:post" json:"content_type"`
	Title            string            `gorm:"type:text" json:"title"`
	Text             string            `gorm:"type:text" json:"text"`
	MediaURLs        []string          `gorm:"serializer:json;type:jsonb" json:"media_urls,omitempty"`
	Categories       []string          `gorm:"serializer:json;type:jsonb" json:"categories,omitempty"`
	URL              string            `gorm:"type:text" json:"url"`
	Engagement       Engagement        `gorm:"embedded" json:"engagement"`
	ContentCreatedAt time.Time         `gorm:"index" json:"content_created_at"`
	CacheExpiration  time.Time         `json:"cache_expiration"`
	IsInappropriate  bool              `gorm:"default:false;index" json:"is_inappropriate"`
	Metadata         map[string]string `gorm:"serializer:json;type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Content) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// SavedContent is a user's bookmark. (UserID, ContentID) is unique; re-saving
// updates folder/tags/notes in place.
type SavedContent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_saved_user_content,priority:1;not null" json:"user_id"`
	ContentID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_saved_user_content,priority:2;not null" json:"content_id"`
	Content   *Content  `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Folder    string    `gorm:"size:100;not null;default:General" json:"folder"`
	Tags      []string  `gorm:"serializer:json;type:jsonb" json:"tags,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes"`
	SavedAt   time.Time `gorm:"autoCreateTime" json:"saved_at"`
}

const (
	ReportStatusPending  = "pending"
	ReportStatusReviewed = "reviewed"
	ReportStatusAccepted = "accepted"
	ReportStatusRejected = "rejected"

	ReportActionNone    = "none"
	ReportActionRemoved = "removed"
	ReportActionFlagged = "flagged"
	ReportActionOther   = "other"
)

// Report is a user-submitted moderation flag. One report per
// (ReporterID, ContentID); a second attempt is rejected, not merged.
type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ReporterID  uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_reporter_content,priority:1;not null" json:"reporter_id"`
	ContentID   uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_reporter_content,priority:2;not null" json:"content_id"`
	Content     *Content   `gorm:"foreignKey:ContentID" json:"content,omitempty"`
	Reason      string     `gorm:"size:50;not null" json:"reason"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;not null;default:pending;index" json:"status"`
	ReviewerID  *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	ActionTaken string     `gorm:"size:20;not null;default:none" json:"action_taken"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
