package domain

// SortField enumerates the supported list orderings.
type SortField string

const (
	SortByName            SortField = "name"
	SortByTechnologyCount SortField = "technology-count"
)

// SortDirection enumerates ascending/descending ordering.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// PaginationRequest describes one page of a sorted listing.
// Page is zero-based.
type PaginationRequest struct {
	Page          int           `json:"page"`
	Size          int           `json:"size"`
	SortBy        SortField     `json:"sort_by"`
	SortDirection SortDirection `json:"sort_direction"`
}

// Offset returns the row offset for this page.
func (p PaginationRequest) Offset() int { return p.Page * p.Size }

// Page is one slice of a listing plus the metadata computed from the total
// element count. Metadata is derived, never stored.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage builds a page with its derived metadata. A zero size yields a
// single page to avoid dividing by zero.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 1
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
		if totalPages == 0 {
			totalPages = 1
		}
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}
