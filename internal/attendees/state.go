package attendees

import "wedding-attendees/internal/models"

// FilterState is the search term, category and page a list view is showing.
// Changing the search term or category always returns to page 1.
type FilterState struct {
	SearchTerm  string          `json:"search_term" yaml:"search_term"`
	Category    models.Category `json:"category" yaml:"category"`
	CurrentPage int             `json:"current_page" yaml:"current_page"`
}

// NewFilterState returns the unfiltered state on page 1
func NewFilterState() FilterState {
	return FilterState{Category: models.CategoryAll, CurrentPage: 1}
}

// WithSearch returns a copy with a new search term, reset to page 1
func (s FilterState) WithSearch(term string) FilterState {
	if term != s.SearchTerm {
		s.CurrentPage = 1
	}
	s.SearchTerm = term
	return s
}

// WithCategory returns a copy with a new category, reset to page 1
func (s FilterState) WithCategory(c models.Category) FilterState {
	if c == "" {
		c = models.CategoryAll
	}
	if c != s.Category {
		s.CurrentPage = 1
	}
	s.Category = c
	return s
}

// WithPage returns a copy pointing at page n
func (s FilterState) WithPage(n int) FilterState {
	s.CurrentPage = n
	return s
}
