package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpired      = errors.New("session expired")
	ErrBadPassword  = errors.New("invalid password")
)

// Claims holds the data in an admin session token
type Claims struct {
	SessionID string `json:"sid"`
	PageID    string `json:"pid,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Manager issues and validates HMAC-signed admin session tokens. Clients
// treat tokens as opaque strings.
type Manager struct {
	key      []byte
	password string
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a session manager. An empty secret is replaced by a
// development key.
func NewManager(secret, adminPassword string, ttl time.Duration) *Manager {
	if secret == "" {
		secret = "dev-session-key"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		key:      []byte("rsvp-admin-session:" + secret),
		password: adminPassword,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks the admin password and returns a new session token
func (m *Manager) Login(password, pageID string) (string, error) {
	if m.password == "" || subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) != 1 {
		return "", ErrBadPassword
	}
	return m.Create(pageID)
}

// Create issues a token valid for the configured TTL
func (m *Manager) Create(pageID string) (string, error) {
	now := m.now()
	claims := Claims{
		SessionID: uuid.NewString(),
		PageID:    pageID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(m.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + m.sign(encoded), nil
}

// Validate verifies the signature and expiry of a token
func (m *Manager) Validate(token string) (*Claims, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok || encoded == "" {
		return nil, ErrInvalidToken
	}

	if !hmac.Equal([]byte(sig), []byte(m.sign(encoded))) {
		return nil, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if m.now().Unix() > claims.ExpiresAt {
		return nil, ErrExpired
	}

	return &claims, nil
}

func (m *Manager) sign(payload string) string {
	mac := hmac.New(sha256.New, m.key)
	mac.Write([]byte(payload))
	return fmt.Sprintf("%x", mac.Sum(nil))
}
