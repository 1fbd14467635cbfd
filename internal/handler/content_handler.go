package handler

import (
	"net/http"

	"anoa.com/creatordashboard/internal/dto"
	"anoa.com/creatordashboard/internal/service"
	"anoa.com/creatordashboard/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContentHandler struct {
	feedService   service.FeedService
	ingestService service.IngestService
}

func NewContentHandler(feedService service.FeedService, ingestService service.IngestService) *ContentHandler {
	return &ContentHandler{
		feedService:   feedService,
		ingestService: ingestService,
	}
}

func (h *ContentHandler) GetFeed(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var filter dto.FeedFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.feedService.GetUserFeed(c.Request.Context(), userID, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) Search(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	var filter dto.FeedFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	res, err := h.feedService.SearchContent(c.Request.Context(), userID, query, filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) GetContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content ID"})
		return
	}

	item, err := h.feedService.GetContent(c.Request.Context(), userID, contentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler) SaveContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.SaveContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	saved, err := h.feedService.SaveContent(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

func (h *ContentHandler) UnsaveContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content ID"})
		return
	}

	if err := h.feedService.UnsaveContent(c.Request.Context(), userID, contentID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "content unsaved"})
}

func (h *ContentHandler) GetSavedContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	page, limit := pageParams(c)
	folder := c.Query("folder")

	res, err := h.feedService.GetSavedContent(c.Request.Context(), userID, folder, page, limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ContentHandler) ReportContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ReportContentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	report, err := h.feedService.ReportContent(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ContentHandler) ShareContent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	contentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid content ID"})
		return
	}

	res, err := h.feedService.ShareContent(c.Request.Context(), userID, contentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// ResolveShare is the public landing endpoint behind a share link.
func (h *ContentHandler) ResolveShare(c *gin.Context) {
	token := c.Param("token")

	content, err := h.feedService.ResolveShareToken(c.Request.Context(), token)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, content)
}

// RefreshSource triggers an on-demand refresh of one platform source.
func (h *ContentHandler) RefreshSource(c *gin.Context) {
	sourceID := c.Param("source")

	stats, err := h.ingestService.RefreshSource(c.Request.Context(), sourceID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ContentHandler) RefreshAll(c *gin.Context) {
	stats, err := h.ingestService.RefreshAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
