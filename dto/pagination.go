package dto

// PageMeta describes the page returned in a Pagination envelope.
// Total counts every item matching the filters, ignoring pagination.
type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// Pagination is a generic pagination envelope for list results.
type Pagination[T any] struct {
	Meta PageMeta `json:"meta"`
	Data []T      `json:"data"`
}

// NewPageMeta derives TotalPages from total and limit.
func NewPageMeta(total int64, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// PaginationPostDTO is a concrete swagger-friendly type for paginated posts response
// swagger:model PaginationPostDTO
type PaginationPostDTO struct {
	Meta PageMeta  `json:"meta"`
	Data []PostDTO `json:"data"`
}
