package export

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-attendees/internal/models"
)

func TestObjectKey(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)
	at := time.Date(2025, 3, 1, 14, 30, 5, 0, kst)

	assert.Equal(t, "wedding-01/attendees-20250301-053005.csv", ObjectKey("wedding-01", at))
}

func TestNewUploader_RequiresCredentials(t *testing.T) {
	_, err := NewUploader(context.Background(), S3Config{Bucket: "b"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestUploadCSV_PutsObject(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, string(b)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	u, err := NewUploader(context.Background(), S3Config{
		Bucket:          "exports",
		Endpoint:        srv.URL,
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
	}, zerolog.Nop())
	require.NoError(t, err)

	records := []models.AttendeeRecord{{GuestName: "김철수", PageID: "wedding-01"}}
	location, err := u.UploadCSV(context.Background(), "wedding-01/attendees.csv", records, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "s3://exports/wedding-01/attendees.csv", location)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/exports/wedding-01/attendees.csv", path)
	assert.True(t, strings.Contains(body, "김철수"))
}
