package attendees

import "wedding-attendees/internal/models"

// View is everything a list screen renders for one state of the inputs
type View struct {
	Summary  models.SummaryStats     `json:"summary" yaml:"summary"`
	Filtered []models.AttendeeRecord `json:"-" yaml:"-"`
	Page     Page                    `json:"page" yaml:"page"`
	State    FilterState             `json:"state" yaml:"state"`
}

// Build runs the full pipeline: the summary over every record, then the
// filter, then pagination of the filtered list. The returned state carries
// the page number actually shown, which resets to 1 if the filtered list
// shrank below the requested page.
func Build(records []models.AttendeeRecord, state FilterState, pageSize int) View {
	filtered := Filter(records, state.SearchTerm, state.Category)
	page := Paginate(filtered, pageSize, state.CurrentPage)
	state.CurrentPage = page.CurrentPage
	if state.Category == "" {
		state.Category = models.CategoryAll
	}
	return View{
		Summary:  ComputeSummary(records),
		Filtered: filtered,
		Page:     page,
		State:    state,
	}
}
