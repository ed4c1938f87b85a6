package domain

// Page size bounds for paginated list queries.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams holds 1-based offset pagination for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalized returns a copy with Page and PageSize clamped to valid ranges:
// page at least 1, page size between 1 and MaxPageSize, defaulting to
// DefaultPageSize when unset.
func (p PaginationParams) Normalized() PaginationParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the row offset for the current page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
