package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// proxyRows builds twelve replies: even rows groom side, odd rows bride
// side, rows 5 and 10 not attending.
func proxyRows() []map[string]any {
	rows := make([]map[string]any, 0, 12)
	for i := 0; i < 12; i++ {
		side := "신랑측"
		if i%2 == 1 {
			side = "신부측"
		}
		attendance, meal := "참석", "예"
		if i == 5 || i == 10 {
			attendance, meal = "불참", "아니오"
		}
		rows = append(rows, map[string]any{
			"guest_name":      fmt.Sprintf("Guest %02d", i),
			"guest_side":      side,
			"attendance":      attendance,
			"meal_attendance": meal,
			"guest_count":     2,
			"phone_number":    fmt.Sprintf("010-2000-%04d", i),
			"page_id":         "wedding-01",
			"created_at":      "2026-03-01T09:00:00Z",
		})
	}
	return rows
}

// fakeProxy serves proxyRows, or a 500 when failing is set
type fakeProxy struct {
	srv     *httptest.Server
	failing atomic.Bool
	calls   atomic.Int32
}

func setupCLI(t *testing.T) *fakeProxy {
	t.Helper()
	fp := &fakeProxy{}
	fp.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.calls.Add(1)
		if fp.failing.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": proxyRows()})
	}))
	t.Cleanup(fp.srv.Close)

	t.Setenv("RSVP_CONFIG", "")
	t.Setenv("RSVP_PROXY_URL", fp.srv.URL)
	t.Setenv("RSVP_PAGE_ID", "")
	t.Setenv("RSVP_DATA_DIR", t.TempDir())
	t.Setenv("RSVP_TIMEZONE", "Asia/Seoul")
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("GROOM_NAME", "민준")
	t.Setenv("BRIDE_NAME", "서연")
	return fp
}

// execute runs the root command with args and returns stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func decodeResponse[T any](t *testing.T, out string) (string, string, T) {
	t.Helper()
	var resp struct {
		Status  string `json:"status"`
		Data    T      `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp.Status, resp.Message, resp.Data
}
