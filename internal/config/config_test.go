package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("RSVP_CONFIG", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rsvp.yaml")
	content := `
proxy_url: https://proxy.test
page_id: from-file
page_size: 20
session_ttl: 2h
notify_phones:
  - "821011112222"
bride_name: 지은
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("RSVP_PAGE_ID", "from-env")
	t.Setenv("RSVP_NOTIFY_PHONES", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.test", cfg.ProxyURL)
	assert.Equal(t, "from-env", cfg.PageID)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"821011112222"}, cfg.NotifyPhones)
	assert.Equal(t, "지은", cfg.BrideName)
}

func TestLoadConfig_EnvList(t *testing.T) {
	t.Setenv("RSVP_CONFIG", "")
	t.Setenv("RSVP_NOTIFY_PHONES", " 8210, ,8220 ")
	t.Setenv("RSVP_RATE_LIMIT", "0.5")
	t.Setenv("RSVP_REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, []string{"8210", "8220"}, cfg.NotifyPhones)
	assert.Equal(t, 0.5, cfg.RateLimit)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	cfg := Default()
	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())
}
