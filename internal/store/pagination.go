package store

// Page size bounds for catalog listings.
const (
	DefaultPerPage = 6
	MaxPerPage     = 100
)

// PageParams selects one page of a numbered listing. Pages start at 1.
type PageParams struct {
	Page    int
	PerPage int
}

// Normalize replaces out-of-range values with defaults.
func (p *PageParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Clamp moves a page past the end back to the last page. An empty listing
// still has one (empty) page.
func (p PageParams) Clamp(total int) PageParams {
	p.Normalize()
	if last := TotalPages(total, p.PerPage); p.Page > last {
		p.Page = last
	}
	return p
}

// Offset returns the number of rows to skip.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// TotalPages returns how many pages total items fill, never less than one.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// Page is one page of a numbered listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NewPage assembles a page from already clamped params.
func NewPage[T any](items []T, params PageParams, total int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalItems: total,
		TotalPages: TotalPages(total, params.PerPage),
	}
}

// HasNext reports whether a later page exists.
func (p *Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// HasPrevious reports whether an earlier page exists.
func (p *Page[T]) HasPrevious() bool { return p.Page > 1 }
