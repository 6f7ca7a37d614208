package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mau.fi/whatsmeow/types/events"

	"wedding-attendees/internal/attendees"
	"wedding-attendees/internal/board"
	"wedding-attendees/internal/notify"
	"wedding-attendees/internal/whatsapp"
)

// MessageSender replies to a phone number
type MessageSender interface {
	SendMessage(phoneNumber, message string) error
}

type DigestHandler struct {
	sender  MessageSender
	fetcher board.Fetcher
	config  *Config
	now     func() time.Time
}

type Config struct {
	PageID    string
	BrideName string
	GroomName string
	Location  *time.Location
	// AdminPhones lists the numbers allowed to ask for a digest
	AdminPhones []string
	Timeout     time.Duration
}

// NewDigestHandler creates a new digest handler
func NewDigestHandler(sender MessageSender, fetcher board.Fetcher, cfg *Config) *DigestHandler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &DigestHandler{
		sender:  sender,
		fetcher: fetcher,
		config:  cfg,
		now:     time.Now,
	}
}

// HandleMessage answers digest requests sent over WhatsApp
func (h *DigestHandler) HandleMessage(msg *events.Message) error {
	if msg.Message == nil {
		return nil
	}

	text := msg.Message.GetConversation()
	if text == "" {
		return nil
	}

	phoneNumber := msg.Info.Sender.User

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()
	return h.HandleText(ctx, phoneNumber, text)
}

// HandleText replies with the current digest when an admin phone sends a
// digest keyword; anything else is ignored.
func (h *DigestHandler) HandleText(ctx context.Context, phoneNumber, text string) error {
	phoneNumber = whatsapp.NormalizePhoneNumber(phoneNumber)
	if !h.isAdmin(phoneNumber) {
		return nil
	}

	text = strings.ToLower(strings.TrimSpace(text))
	if !containsAny(text, "현황", "통계", "summary", "status", "stats") {
		return nil
	}

	res := board.Load(ctx, h.fetcher, h.config.PageID)
	reply := res.Message
	if res.OK() {
		reply = notify.FormatDigest(
			notify.Subject(h.config.GroomName, h.config.BrideName),
			attendees.ComputeSummary(res.Records),
			h.now().In(h.config.Location),
		)
	}

	if err := h.sender.SendMessage(phoneNumber, reply); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	return nil
}

func (h *DigestHandler) isAdmin(phoneNumber string) bool {
	for _, p := range h.config.AdminPhones {
		if whatsapp.NormalizePhoneNumber(p) == phoneNumber {
			return true
		}
	}
	return false
}

// containsAny checks if the text contains any of the given keywords
func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
