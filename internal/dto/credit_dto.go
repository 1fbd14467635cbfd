package dto

import "anoa.com/creatordashboard/internal/model"

type BalanceResponse struct {
	Balance     int `json:"balance"`
	TotalEarned int `json:"total_earned"`
	TotalSpent  int `json:"total_spent"`
}

type PaginatedTransactionResponse struct {
	Data []model.CreditTransaction `json:"data"`
	Meta PaginationMeta            `json:"meta"`
}

type AdjustCreditsInput struct {
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required,max=500"`
}

type DeductCreditsInput struct {
	Amount      int    `json:"amount" binding:"required,min=1"`
	Category    string `json:"category" binding:"omitempty,oneof=feature_usage special_event other"`
	Description string `json:"description" binding:"max=500"`
}
