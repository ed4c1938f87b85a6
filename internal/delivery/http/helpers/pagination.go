package helpers

import (
	"net/http"
	"net/url"
	"strconv"

	"conventionlist/internal/domain"
)

// ParsePagination reads page and page_size from the request query string.
// Missing, malformed, or out-of-range values fall back to the domain
// defaults rather than failing the request.
func ParsePagination(r *http.Request) domain.PaginationParams {
	q := r.URL.Query()
	p := domain.PaginationParams{
		Page:     queryInt(q, "page"),
		PageSize: queryInt(q, "page_size"),
	}
	return p.Normalized()
}

func queryInt(q url.Values, name string) int {
	v, err := strconv.Atoi(q.Get(name))
	if err != nil {
		return 0
	}
	return v
}

// PaginationMeta is the pagination block of paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta for a result set of total rows.
// TotalPages is the ceiling of total over pageSize.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	m := PaginationMeta{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		m.TotalPages = (total + pageSize - 1) / pageSize
	}
	return m
}
