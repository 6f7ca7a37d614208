package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const defaultSendGridHost = "https://api.sendgrid.com"

// Notifier delivers a digest to the couple
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// MessageSender sends a plain text message to a phone number
type MessageSender interface {
	SendMessage(phoneNumber, message string) error
}

// EmailConfig configures the SendGrid notifier
type EmailConfig struct {
	APIKey string
	From   string
	To     string
	// Host defaults to the public SendGrid API
	Host string
}

// Email sends digests through SendGrid
type Email struct {
	cfg EmailConfig
	log zerolog.Logger
}

// NewEmail creates an e-mail notifier
func NewEmail(cfg EmailConfig, logger zerolog.Logger) (*Email, error) {
	if cfg.APIKey == "" || cfg.From == "" || cfg.To == "" {
		return nil, errors.New("sendgrid api key, sender and recipient are required")
	}
	if cfg.Host == "" {
		cfg.Host = defaultSendGridHost
	}
	return &Email{cfg: cfg, log: logger.With().Str("component", "email").Logger()}, nil
}

// Notify sends one plain-text e-mail
func (e *Email) Notify(ctx context.Context, subject, body string) error {
	from := mail.NewEmail("RSVP", e.cfg.From)
	to := mail.NewEmail("", e.cfg.To)
	m := mail.NewSingleEmail(from, subject, to, body, "")

	request := sendgrid.GetRequest(e.cfg.APIKey, "/v3/mail/send", e.cfg.Host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(m)

	if err := ctx.Err(); err != nil {
		return err
	}
	response, err := sendgrid.API(request)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("failed to send email: status %d: %s", response.StatusCode, response.Body)
	}

	e.log.Info().Int("status", response.StatusCode).Str("to", e.cfg.To).Msg("Digest email sent")
	return nil
}

// WhatsApp sends digests as WhatsApp messages to each configured phone
type WhatsApp struct {
	sender MessageSender
	phones []string
}

// NewWhatsApp creates a WhatsApp notifier
func NewWhatsApp(sender MessageSender, phones []string) *WhatsApp {
	return &WhatsApp{sender: sender, phones: phones}
}

// Notify sends the body, which already starts with its title, to every
// phone and joins the failures.
func (w *WhatsApp) Notify(ctx context.Context, subject, body string) error {
	var errs []error
	for _, phone := range w.phones {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.sender.SendMessage(phone, body); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", phone, err))
		}
	}
	return errors.Join(errs...)
}

// Multi fans a digest out to several notifiers
type Multi []Notifier

// Notify calls every notifier and joins their errors
func (m Multi) Notify(ctx context.Context, subject, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, subject, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
