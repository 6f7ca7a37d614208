package board

import (
	"context"
	"errors"

	"wedding-attendees/internal/models"
	"wedding-attendees/internal/proxy"
)

// User-facing messages shown in place of the list when a load fails
const (
	MsgPageIDRequired = "페이지 ID를 입력해주세요."
	MsgLoadFailed     = "데이터를 불러오는데 실패했습니다. 잠시 후 다시 시도해주세요."
)

// Fetcher loads the attendee list for a page
type Fetcher interface {
	FetchAttendees(ctx context.Context, pageID string) ([]models.AttendeeRecord, error)
}

// LoadResult is the outcome of one fetch. Records is never nil; on failure
// it is empty and Message holds the text to show.
type LoadResult struct {
	Records []models.AttendeeRecord
	Message string
	Err     error
}

// OK reports whether the fetch succeeded
func (r LoadResult) OK() bool { return r.Err == nil }

// Load fetches pageID and converts any failure into a message plus an empty
// list so the rest of the pipeline degrades to its zero state.
func Load(ctx context.Context, f Fetcher, pageID string) LoadResult {
	records, err := f.FetchAttendees(ctx, pageID)
	if err != nil {
		msg := MsgLoadFailed
		if errors.Is(err, proxy.ErrEmptyPageID) {
			msg = MsgPageIDRequired
		}
		return LoadResult{Records: []models.AttendeeRecord{}, Message: msg, Err: err}
	}
	if records == nil {
		records = []models.AttendeeRecord{}
	}
	return LoadResult{Records: records}
}
