package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

type PaginationMeta struct {
	Total      int64 `json:"total,omitempty"`
	TotalPages int   `json:"totalPages,omitempty"`
	Page       int   `json:"page,omitempty"`
	PageSize   int   `json:"pageSize,omitempty"`
}

func NewPaginationMeta(total int64, page, limit int) PaginationMeta {
	totalPages := 0
	if limit > 0 {
		// ceil(total / limit)
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return PaginationMeta{
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   limit,
	}
}

type PageQuery struct {
	Page     int
	PageSize int
}

// ParsePageQuery reads page and page_size. Out-of-range sizes fall back to
// defaultSize; maxSize <= 0 means unbounded.
func ParsePageQuery(c *gin.Context, defaultSize, maxSize int) PageQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
	if pageSize < 1 || (maxSize > 0 && pageSize > maxSize) {
		pageSize = defaultSize
	}

	return PageQuery{Page: page, PageSize: pageSize}
}

// Paginate slices an already loaded result set.
func Paginate[T any](items []T, q PageQuery) ([]T, PaginationMeta) {
	start := min((q.Page-1)*q.PageSize, len(items))
	end := min(start+q.PageSize, len(items))

	return items[start:end], NewPaginationMeta(int64(len(items)), q.Page, q.PageSize)
}

type ApiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  any             `json:"data,omitempty"`
	Meta  *PaginationMeta `json:"meta,omitempty"`
	Error any             `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data any, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:   true,
		Data: data,
		Meta: meta,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details any) {
	c.JSON(status, ApiEnvelope{
		Ok: false,
		Error: map[string]any{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}
