package attendees

import "wedding-attendees/internal/models"

// DefaultPageSize is the page size used by every list view
const DefaultPageSize = 10

// Page is one slice of a filtered list
type Page struct {
	Items       []models.AttendeeRecord `json:"items" yaml:"items"`
	TotalPages  int                     `json:"total_pages" yaml:"total_pages"`
	CurrentPage int                     `json:"current_page" yaml:"current_page"`
	// StartIndex is inclusive and EndIndex exclusive, both 0-based
	StartIndex int `json:"start_index" yaml:"start_index"`
	EndIndex   int `json:"end_index" yaml:"end_index"`
}

// TotalPages returns ceil(n/pageSize); an empty list has zero pages
func TotalPages(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return (n + pageSize - 1) / pageSize
}

// ClampPage returns page if it lies within [1, totalPages] and 1 otherwise
func ClampPage(page, totalPages int) int {
	if page < 1 || page > totalPages {
		return 1
	}
	return page
}

// Paginate slices records into the requested page. A page outside the
// available range resets to page 1.
func Paginate(records []models.AttendeeRecord, pageSize, currentPage int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	total := TotalPages(len(records), pageSize)
	current := ClampPage(currentPage, total)
	if total == 0 {
		return Page{Items: []models.AttendeeRecord{}, CurrentPage: current}
	}

	start := (current - 1) * pageSize
	end := min(start+pageSize, len(records))
	return Page{
		Items:       records[start:end],
		TotalPages:  total,
		CurrentPage: current,
		StartIndex:  start,
		EndIndex:    end,
	}
}

// HasPrev reports whether a previous page exists
func (p Page) HasPrev() bool { return p.CurrentPage > 1 }

// HasNext reports whether a following page exists
func (p Page) HasNext() bool { return p.CurrentPage < p.TotalPages }
