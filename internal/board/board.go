package board

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/models"
)

// SnapshotStore keeps the last good record list per page
type SnapshotStore interface {
	SaveSnapshot(pageID string, records []models.AttendeeRecord) error
}

// Config holds the board configuration
type Config struct {
	PageID   string
	PageSize int
}

// Board is the admin review screen: one record list, one filter state and
// the view derived from them.
//
// Refresh calls may overlap. Each one is numbered when issued and a result
// is applied only if no later-issued refresh has been applied already.
type Board struct {
	mu       sync.Mutex
	fetcher  Fetcher
	store    SnapshotStore
	pageID   string
	pageSize int
	log      zerolog.Logger

	records []models.AttendeeRecord
	state   attendees.FilterState
	view    attendees.View
	message string

	issued  uint64
	applied uint64
}

// RefreshResult describes what a Refresh did
type RefreshResult struct {
	Applied bool
	Stale   bool
	Count   int
	Message string
	Err     error
}

// New creates a board with an empty record list. store may be nil.
func New(fetcher Fetcher, store SnapshotStore, cfg *Config, logger zerolog.Logger) *Board {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = attendees.DefaultPageSize
	}
	b := &Board{
		fetcher:  fetcher,
		store:    store,
		pageID:   cfg.PageID,
		pageSize: pageSize,
		log:      logger.With().Str("component", "board").Str("page_id", cfg.PageID).Logger(),
		records:  []models.AttendeeRecord{},
		state:    attendees.NewFilterState(),
	}
	b.rebuild()
	return b
}

// PageID returns the page this board reviews
func (b *Board) PageID() string { return b.pageID }

// Refresh reloads the record list from the proxy
func (b *Board) Refresh(ctx context.Context) RefreshResult {
	b.mu.Lock()
	b.issued++
	seq := b.issued
	b.mu.Unlock()

	res := Load(ctx, b.fetcher, b.pageID)

	b.mu.Lock()
	defer b.mu.Unlock()

	if seq <= b.applied {
		b.log.Debug().Uint64("seq", seq).Uint64("applied", b.applied).Msg("Dropping stale refresh")
		return RefreshResult{Stale: true, Err: res.Err}
	}
	b.applied = seq
	b.records = res.Records
	b.message = res.Message
	b.rebuild()

	if res.OK() {
		if b.store != nil {
			if err := b.store.SaveSnapshot(b.pageID, res.Records); err != nil {
				b.log.Warn().Err(err).Msg("Failed to save snapshot")
			}
		}
		b.log.Info().Int("count", len(res.Records)).Msg("Attendees refreshed")
	} else {
		b.log.Error().Err(res.Err).Msg("Failed to load attendees")
	}

	return RefreshResult{
		Applied: true,
		Count:   len(res.Records),
		Message: res.Message,
		Err:     res.Err,
	}
}

// Replace swaps in a record list loaded some other way, such as a snapshot
func (b *Board) Replace(records []models.AttendeeRecord) attendees.View {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.records = append([]models.AttendeeRecord{}, records...)
	b.message = ""
	b.rebuild()
	return b.view
}

// Search sets the search term and returns to page 1
func (b *Board) Search(term string) attendees.View {
	return b.update(func(s attendees.FilterState) attendees.FilterState { return s.WithSearch(term) })
}

// SetCategory sets the filter category and returns to page 1
func (b *Board) SetCategory(c models.Category) attendees.View {
	return b.update(func(s attendees.FilterState) attendees.FilterState { return s.WithCategory(c) })
}

// GoToPage moves to page n; an out-of-range page lands on page 1
func (b *Board) GoToPage(n int) attendees.View {
	return b.update(func(s attendees.FilterState) attendees.FilterState { return s.WithPage(n) })
}

// NextPage moves forward one page if there is one
func (b *Board) NextPage() attendees.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view.Page.HasNext() {
		b.state = b.state.WithPage(b.state.CurrentPage + 1)
		b.rebuild()
	}
	return b.view
}

// PrevPage moves back one page if there is one
func (b *Board) PrevPage() attendees.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view.Page.HasPrev() {
		b.state = b.state.WithPage(b.state.CurrentPage - 1)
		b.rebuild()
	}
	return b.view
}

// View returns the current view
func (b *Board) View() attendees.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// Message returns the last load failure message, empty after a success
func (b *Board) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

func (b *Board) update(fn func(attendees.FilterState) attendees.FilterState) attendees.View {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = fn(b.state)
	b.rebuild()
	return b.view
}

// rebuild re-runs the pipeline; callers hold the lock
func (b *Board) rebuild() {
	b.view = attendees.Build(b.records, b.state, b.pageSize)
	b.state = b.view.State
}
