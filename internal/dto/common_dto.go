package dto

type PaginationMeta struct {
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	Total     int64 `json:"total"`
	PageCount int   `json:"page_count"`
}

func NewPaginationMeta(page, limit int, total int64) PaginationMeta {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	pageCount := int((total + int64(limit) - 1) / int64(limit))
	return PaginationMeta{
		Page:      page,
		Limit:     limit,
		Total:     total,
		PageCount: pageCount,
	}
}
