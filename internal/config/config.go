package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Seoul must resolve on hosts without zoneinfo

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	ProxyURL       string        `mapstructure:"proxy_url"`
	PageID         string        `mapstructure:"page_id"`
	PageSize       int           `mapstructure:"page_size"`
	DataDir        string        `mapstructure:"data_dir"`
	Timezone       string        `mapstructure:"timezone"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LogLevel       string        `mapstructure:"log_level"`

	HTTPAddr      string        `mapstructure:"http_addr"`
	AdminPassword string        `mapstructure:"admin_password"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	RateLimit     float64       `mapstructure:"rate_limit"`

	BrideName    string   `mapstructure:"bride_name"`
	GroomName    string   `mapstructure:"groom_name"`
	NotifyPhones []string `mapstructure:"notify_phones"`

	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	MailFrom       string `mapstructure:"mail_from"`
	MailTo         string `mapstructure:"mail_to"`

	ExportBucket          string `mapstructure:"export_bucket"`
	ExportEndpoint        string `mapstructure:"export_endpoint"`
	ExportAccessKeyID     string `mapstructure:"export_access_key_id"`
	ExportSecretAccessKey string `mapstructure:"export_secret_access_key"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ProxyURL:       "https://wedding-proxy.example.com",
		PageSize:       10,
		DataDir:        "data",
		Timezone:       "Asia/Seoul",
		RequestTimeout: 15 * time.Second,
		LogLevel:       "info",
		HTTPAddr:       ":8080",
		SessionTTL:     24 * time.Hour,
		RateLimit:      5,
		BrideName:      "Bride",
		GroomName:      "Groom",
	}
}

// LoadConfig loads configuration from an optional YAML file, then lets
// environment variables override individual values. An empty path falls
// back to RSVP_CONFIG; with neither set only defaults and env apply.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("RSVP_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg.ProxyURL = getEnv("RSVP_PROXY_URL", cfg.ProxyURL)
	cfg.PageID = getEnv("RSVP_PAGE_ID", cfg.PageID)
	cfg.PageSize = getEnvInt("RSVP_PAGE_SIZE", cfg.PageSize)
	cfg.DataDir = getEnv("RSVP_DATA_DIR", cfg.DataDir)
	cfg.Timezone = getEnv("RSVP_TIMEZONE", cfg.Timezone)
	cfg.RequestTimeout = getEnvDuration("RSVP_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.HTTPAddr = getEnv("RSVP_HTTP_ADDR", cfg.HTTPAddr)
	cfg.AdminPassword = getEnv("RSVP_ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.SessionSecret = getEnv("RSVP_SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getEnvDuration("RSVP_SESSION_TTL", cfg.SessionTTL)
	cfg.RateLimit = getEnvFloat("RSVP_RATE_LIMIT", cfg.RateLimit)
	cfg.BrideName = getEnv("BRIDE_NAME", cfg.BrideName)
	cfg.GroomName = getEnv("GROOM_NAME", cfg.GroomName)
	if phones := getEnv("RSVP_NOTIFY_PHONES", ""); phones != "" {
		cfg.NotifyPhones = splitList(phones)
	}
	cfg.SendGridAPIKey = getEnv("SENDGRID_API_KEY", cfg.SendGridAPIKey)
	cfg.MailFrom = getEnv("RSVP_MAIL_FROM", cfg.MailFrom)
	cfg.MailTo = getEnv("RSVP_MAIL_TO", cfg.MailTo)
	cfg.ExportBucket = getEnv("EXPORT_BUCKET_NAME", cfg.ExportBucket)
	cfg.ExportEndpoint = getEnv("EXPORT_ENDPOINT_URL", cfg.ExportEndpoint)
	cfg.ExportAccessKeyID = getEnv("EXPORT_ACCESS_KEY_ID", cfg.ExportAccessKeyID)
	cfg.ExportSecretAccessKey = getEnv("EXPORT_SECRET_ACCESS_KEY", cfg.ExportSecretAccessKey)

	return cfg, nil
}

// Location resolves the display timezone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func loadFile(path string, cfg *Config) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return err
	}

	return v.Unmarshal(cfg)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
