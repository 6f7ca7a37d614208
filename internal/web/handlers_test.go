package web

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-attendees/internal/models"
	"wedding-attendees/internal/session"
)

// MockFetcher implements board.Fetcher for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error)
}

func (m *MockFetcher) FetchAttendees(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, pageID)
	}
	return nil, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func sampleRecords() []models.AttendeeRecord {
	var out []models.AttendeeRecord
	for i := 0; i < 12; i++ {
		side := models.SideGroom
		if i%2 == 1 {
			side = models.SideBride
		}
		out = append(out, models.AttendeeRecord{
			GuestName:   fmt.Sprintf("Guest %02d", i),
			GuestSide:   side,
			Attending:   models.AnswerYes,
			MealChoice:  models.AnswerYes,
			GuestCount:  2,
			PhoneNumber: fmt.Sprintf("010-1000-%04d", i),
			PageID:      "wedding-01",
		})
	}
	return out
}

func newTestServer(t *testing.T, fetcher *MockFetcher) (*Server, *session.Manager) {
	t.Helper()
	sessions := session.NewManager("secret", "pw", time.Hour)
	srv := NewServer(fetcher, sessions, Config{PageSize: 10, RateLimit: 1000}, zerolog.Nop())
	return srv, sessions
}

func doRequest(srv *Server, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func login(t *testing.T, srv *Server, pageID string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"password": "pw", "pageId": pageID})
	w := doRequest(srv, http.MethodPost, "/api/admin/login", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func TestLogin_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{})
	body, _ := json.Marshal(map[string]string{"password": "nope"})

	w := doRequest(srv, http.MethodPost, "/api/admin/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPages_RequireSession(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{})

	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, http.MethodGet, "/api/pages/wedding-01/summary", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(srv, http.MethodGet, "/api/pages/wedding-01/summary", "forged.token", nil).Code)
}

func TestPages_TokenBoundToPage(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{})
	token := login(t, srv, "wedding-01")

	w := doRequest(srv, http.MethodGet, "/api/pages/other-page/summary", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSummary(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			assert.Equal(t, "wedding-01", pageID)
			return sampleRecords(), nil
		},
	})
	token := login(t, srv, "")

	w := doRequest(srv, http.MethodGet, "/api/pages/wedding-01/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK      bool                `json:"ok"`
		Summary models.SummaryStats `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, 12, resp.Summary.Total)
	assert.Equal(t, 24, resp.Summary.TotalGuests)
	assert.Equal(t, 6, resp.Summary.GroomSide)
}

func TestSummary_LoadFailureDegrades(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			return nil, errors.New("proxy down")
		},
	})
	token := login(t, srv, "")

	w := doRequest(srv, http.MethodGet, "/api/pages/wedding-01/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK      bool                `json:"ok"`
		Message string              `json:"message"`
		Summary models.SummaryStats `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, models.SummaryStats{}, resp.Summary)
}

func TestAttendees_FilterAndPage(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			return sampleRecords(), nil
		},
	})
	token := login(t, srv, "")

	tests := []struct {
		query     string
		wantCode  int
		wantItems int
		wantPages int
		wantPage  int
	}{
		{query: "", wantCode: http.StatusOK, wantItems: 10, wantPages: 2, wantPage: 1},
		{query: "?page=2", wantCode: http.StatusOK, wantItems: 2, wantPages: 2, wantPage: 2},
		{query: "?category=bride_side&page=2", wantCode: http.StatusOK, wantItems: 6, wantPages: 1, wantPage: 1},
		{query: "?q=guest%2011", wantCode: http.StatusOK, wantItems: 1, wantPages: 1, wantPage: 1},
		{query: "?category=vip", wantCode: http.StatusBadRequest},
		{query: "?page=two", wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := doRequest(srv, http.MethodGet, "/api/pages/wedding-01/attendees"+tt.query, token, nil)
			require.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp struct {
				Page struct {
					Items       []models.AttendeeRecord `json:"items"`
					TotalPages  int                     `json:"total_pages"`
					CurrentPage int                     `json:"current_page"`
				} `json:"page"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Len(t, resp.Page.Items, tt.wantItems)
			assert.Equal(t, tt.wantPages, resp.Page.TotalPages)
			assert.Equal(t, tt.wantPage, resp.Page.CurrentPage)
		})
	}
}

func TestExport(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			return sampleRecords(), nil
		},
	})
	token := login(t, srv, "")

	w := doRequest(srv, http.MethodGet, "/api/pages/wedding-01/export.csv?category=groom_side", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attendees-wedding-01-")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(w.Body.String(), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestExport_FilenameIsQuoted(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			return sampleRecords(), nil
		},
	})
	token := login(t, srv, "")

	w := doRequest(srv, http.MethodGet, "/api/pages/a%22b;c/export.csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.True(t, strings.HasPrefix(params["filename"], `attendees-a"b;c-`), params["filename"])
	assert.True(t, strings.HasSuffix(params["filename"], ".csv"))
}

func TestExport_LoadFailure(t *testing.T) {
	srv, _ := newTestServer(t, &MockFetcher{
		FetchFunc: func(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
			return nil, errors.New("proxy down")
		},
	})
	token := login(t, srv, "")

	w := doRequest(srv, http.MethodGet, "/api/pages/wedding-01/export.csv", token, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRateLimit(t *testing.T) {
	sessions := session.NewManager("secret", "pw", time.Hour)
	srv := NewServer(&MockFetcher{}, sessions, Config{RateLimit: 1}, zerolog.Nop())

	limited := 0
	for i := 0; i < 5; i++ {
		w := doRequest(srv, http.MethodPost, "/api/admin/login", "", []byte(`{"password":"x"}`))
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Positive(t, limited)
}
