package dto

import "anoa.com/creatordashboard/internal/model"

type UpdateUserInput struct {
	Role          string `json:"role" binding:"omitempty,oneof=admin creator"`
	AccountStatus string `json:"account_status" binding:"omitempty,oneof=active suspended deactivated"`
}

type PaginatedUserResponse struct {
	Data []model.User   `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type ReviewReportInput struct {
	Status      string `json:"status" binding:"required,oneof=reviewed accepted rejected"`
	ActionTaken string `json:"action_taken" binding:"omitempty,oneof=none removed flagged other"`
}

type PaginatedReportResponse struct {
	Data []model.Report `json:"data"`
	Meta PaginationMeta `json:"meta"`
}
