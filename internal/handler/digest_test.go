package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-attendees/internal/board"
	"wedding-attendees/internal/models"
)

type stubFetcher struct {
	records []models.AttendeeRecord
	err     error
	calls   int
}

func (f *stubFetcher) FetchAttendees(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
	f.calls++
	return f.records, f.err
}

type sentMessage struct {
	phone, text string
}

type stubSender struct {
	sent []sentMessage
}

func (s *stubSender) SendMessage(phone, text string) error {
	s.sent = append(s.sent, sentMessage{phone, text})
	return nil
}

func newTestHandler(f *stubFetcher, s *stubSender) *DigestHandler {
	h := NewDigestHandler(s, f, &Config{
		PageID:      "wedding-01",
		BrideName:   "지은",
		GroomName:   "민준",
		AdminPhones: []string{"010-1111-2222"},
	})
	h.now = func() time.Time { return time.Date(2025, 4, 12, 9, 30, 0, 0, time.UTC) }
	return h
}

func TestHandleText_AdminGetsDigest(t *testing.T) {
	f := &stubFetcher{records: []models.AttendeeRecord{
		{GuestSide: models.SideGroom, Attending: models.AnswerYes, MealChoice: models.AnswerYes, GuestCount: 3},
	}}
	s := &stubSender{}

	require.NoError(t, newTestHandler(f, s).HandleText(context.Background(), "821011112222", "현황 알려줘"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "821011112222", s.sent[0].phone)
	assert.Contains(t, s.sent[0].text, "[참석 현황] 민준 ♥ 지은")
	assert.Contains(t, s.sent[0].text, "참석 인원: 3명")
}

func TestHandleText_IgnoresStrangersAndChatter(t *testing.T) {
	f := &stubFetcher{}
	s := &stubSender{}
	h := newTestHandler(f, s)

	require.NoError(t, h.HandleText(context.Background(), "821099998888", "summary"))
	require.NoError(t, h.HandleText(context.Background(), "821011112222", "축하해!"))
	assert.Empty(t, s.sent)
	assert.Zero(t, f.calls)
}

func TestHandleText_LoadFailureRepliesWithMessage(t *testing.T) {
	f := &stubFetcher{err: errors.New("boom")}
	s := &stubSender{}

	require.NoError(t, newTestHandler(f, s).HandleText(context.Background(), "821011112222", "Status"))
	require.Len(t, s.sent, 1)
	assert.Equal(t, board.MsgLoadFailed, s.sent[0].text)
}
