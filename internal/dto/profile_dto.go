package dto

import "anoa.com/creatordashboard/internal/model"

type UpdateProfileInput struct {
	FullName          *string  `json:"full_name" binding:"omitempty,max=100"`
	Bio               *string  `json:"bio" binding:"omitempty,max=2000"`
	Website           *string  `json:"website" binding:"omitempty,max=255"`
	Location          *string  `json:"location" binding:"omitempty,max=100"`
	Skills            *string  `json:"skills" binding:"omitempty,max=2000"`
	ContentSources    []string `json:"content_sources" binding:"omitempty,dive,oneof=twitter reddit linkedin"`
	ContentCategories []string `json:"content_categories" binding:"omitempty,max=20,dive,max=50"`
}

type ProfileResponse struct {
	User    *model.User    `json:"user"`
	Profile *model.Profile `json:"profile"`
	// CreditsAwarded reports milestone credits granted by this update, if any.
	CreditsAwarded int `json:"credits_awarded,omitempty"`
}
