package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/models"
)

const (
	rsvpPath           = "/api/rsvp"
	actionGetByPageID  = "getByPageId"
	maxResponseSize    = 10 << 20 // 10MB
	requestIDHeaderKey = "X-Request-ID"
)

// ErrEmptyPageID is returned before any network call when no page id is given
var ErrEmptyPageID = errors.New("page id is required")

// TransportError covers network failures, non-2xx responses, malformed JSON
// and envelopes with success=false.
type TransportError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": status %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": " + e.Message)
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Config holds the proxy client configuration
type Config struct {
	BaseURL string
	// Timeout of zero leaves the http.Client default (no timeout)
	Timeout time.Duration
}

// Client talks to the RSVP proxy
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new proxy client
func NewClient(cfg *Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With().Str("component", "proxy").Logger(),
	}
}

type request struct {
	Action string `json:"action"`
	PageID string `json:"pageId"`
}

type envelope struct {
	Success bool                  `json:"success"`
	Data    []attendees.RawRecord `json:"data"`
	Error   string                `json:"error"`
}

// FetchAttendees loads every RSVP response for pageID and normalizes it
func (c *Client) FetchAttendees(ctx context.Context, pageID string) ([]models.AttendeeRecord, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return nil, ErrEmptyPageID
	}

	raw, err := c.fetchRaw(ctx, pageID)
	if err != nil {
		return nil, err
	}
	return attendees.Normalize(raw), nil
}

func (c *Client) fetchRaw(ctx context.Context, pageID string) ([]attendees.RawRecord, error) {
	const op = "fetch attendees"
	requestID := uuid.NewString()
	log := c.log.With().Str("page_id", pageID).Str("request_id", requestID).Logger()

	body, err := json.Marshal(request{Action: actionGetByPageID, PageID: pageID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rsvpPath, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeaderKey, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Proxy request failed")
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error().Int("status", resp.StatusCode).Msg("Proxy returned an error status")
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&env); err != nil {
		log.Error().Err(err).Msg("Proxy returned malformed JSON")
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Success {
		log.Error().Str("error", env.Error).Msg("Proxy reported failure")
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Message: env.Error}
	}

	log.Debug().
		Int("count", len(env.Data)).
		Dur("elapsed", time.Since(start)).
		Msg("Fetched attendees")
	return env.Data, nil
}
