package dto

// Pagination is embedded in every list filter.
type Pagination struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// ListResponse is the envelope of every paginated list endpoint.
type ListResponse[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

// NewListResponse fills the paging fields from p and total.
func NewListResponse[T any](data []T, total int64, p Pagination) ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return ListResponse[T]{Data: data, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
