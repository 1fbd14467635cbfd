package handler

import (
	"net/http"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/service"
	"anoa.com/creatordashboard/pkg/response"
	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditService service.CreditService
}

func NewCreditHandler(creditService service.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

func (h *CreditHandler) GetBalance(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	balance, err := h.creditService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		Balance:     balance.Balance,
		TotalEarned: balance.TotalEarned,
		TotalSpent:  balance.TotalSpent,
	})
}

func (h *CreditHandler) GetTransactions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	page, limit := pageParams(c)

	res, err := h.creditService.GetTransactionHistory(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// SpendCredits lets a user pay credits for a platform feature.
func (h *CreditHandler) SpendCredits(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.DeductCreditsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	if err := h.creditService.DeductCredits(c.Request.Context(), userID, input.Amount, input.Category, input.Description); err != nil {
		response.ResponseError(c, err)
		return
	}

	balance, err := h.creditService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "credits spent", "balance": balance.Balance})
}
