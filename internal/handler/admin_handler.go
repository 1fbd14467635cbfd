package handler

import (
	"net/http"
	"strconv"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/repository"
	"anoa.com/creatordashboard/internal/service"
	"anoa.com/creatordashboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService  service.AdminService
	creditService service.CreditService
}

func NewAdminHandler(adminService service.AdminService, creditService service.CreditService) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		creditService: creditService,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	filter := repository.UserListFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	res, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var input dto.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	user, err := h.adminService.UpdateUser(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AdjustCredits applies a signed manual credit adjustment to a user account.
func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	adminID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var input dto.AdjustCreditsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	if err := h.creditService.AdjustCredits(c.Request.Context(), userID, input.Amount, input.Description, adminID); err != nil {
		response.ResponseError(c, err)
		return
	}

	balance, err := h.creditService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "credits adjusted", "balance": balance.Balance})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, limit := pageParams(c)
	status := c.DefaultQuery("status", "pending")
	if status == "all" {
		status = ""
	}

	res, err := h.adminService.ListReports(c.Request.Context(), status, page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) ReviewReport(c *gin.Context) {
	reviewerID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report ID"})
		return
	}

	var input dto.ReviewReportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	report, err := h.adminService.ReviewReport(c.Request.Context(), uint(reportID), reviewerID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
