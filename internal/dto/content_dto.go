package dto

import (
	"time"

	"anoa.com/creatordashboard/internal/model"
	"github.com/google/uuid"
)

type FeedFilter struct {
	Sources    []string `form:"sources"`
	Categories []string `form:"categories"`
	SortBy     string   `form:"sort_by" binding:"omitempty,oneof=recent popular relevance"`
	Page       int      `form:"page"`
	Limit      int      `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ContentItem struct {
	model.Content
	IsSaved bool `json:"is_saved"`
}

type PaginatedContentResponse struct {
	Data []ContentItem  `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type SaveContentInput struct {
	ContentID uuid.UUID `json:"content_id" binding:"required"`
	Folder    string    `json:"folder"`
	Tags      []string  `json:"tags"`
	Notes     string    `json:"notes"`
}

type PaginatedSavedResponse struct {
	Data []model.SavedContent `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

type ReportContentInput struct {
	ContentID   uuid.UUID `json:"content_id" binding:"required"`
	Reason      string    `json:"reason" binding:"required,oneof=spam harassment hate_speech misinformation adult_content other"`
	Description string    `json:"description" binding:"max=2000"`
}

type ShareResponse struct {
	ShareURL  string    `json:"share_url"`
	Token     string    `json:"token"`
	ContentID uuid.UUID `json:"content_id"`
	SharedAt  time.Time `json:"shared_at"`
}

type RefreshStats struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
	Saved   int    `json:"saved"`
	Updated int    `json:"updated"`
	Errors  int    `json:"errors"`
}
