package handler

import (
	"strconv"

	"anoa.com/creatordashboard/pkg/validator"
	"github.com/gin-gonic/gin"
)

func formatValidationError(err error) string {
	return validator.FormatValidationError(err)
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return page, limit
}
