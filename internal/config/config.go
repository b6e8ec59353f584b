// Package config loads settings from the environment (and .env when present).
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

// Config 应用全部配置
type Config struct {
	// --- Server ---
	Port     string `envconfig:"PORT" default:"8080"`
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	BaseURL  string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// --- Database ---
	DatabaseURL string `envconfig:"DATABASE_URL" default:"host=localhost user=postgres password=postgres dbname=councilboard port=5432 sslmode=disable TimeZone=UTC"`

	// --- Sessions / admin ---
	SessionSecret     string `envconfig:"SESSION_SECRET" default:"secret_key_change_me"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"`

	// --- Identity ---
	IdentityPepper string `envconfig:"IDENTITY_PEPPER"`

	// --- Comment rate limiting ---
	CommentRateLimit  int           `envconfig:"COMMENT_RATE_LIMIT" default:"5"`
	CommentRateWindow time.Duration `envconfig:"COMMENT_RATE_WINDOW" default:"1m"`
	CacheSize         int           `envconfig:"CACHE_SIZE" default:"1024"`

	// --- Issue creation rate limiting ---
	IssueRateLimit  int           `envconfig:"ISSUE_RATE_LIMIT" default:"2"`
	IssueRateWindow time.Duration `envconfig:"ISSUE_RATE_WINDOW" default:"1m"`

	// --- Jobs ---
	ReconcileSchedule string `envconfig:"RECONCILE_SCHEDULE" default:"0 3 * * *"`

	// --- Telegram notifications (optional) ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	if c.CommentRateLimit <= 0 {
		return fmt.Errorf("COMMENT_RATE_LIMIT must be > 0")
	}
	if c.CommentRateWindow <= 0 {
		return fmt.Errorf("COMMENT_RATE_WINDOW must be > 0")
	}
	if c.IssueRateLimit <= 0 {
		return fmt.Errorf("ISSUE_RATE_LIMIT must be > 0")
	}
	if c.IssueRateWindow <= 0 {
		return fmt.Errorf("ISSUE_RATE_WINDOW must be > 0")
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("CACHE_SIZE must be > 0")
	}
	if c.TelegramBotToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading env vars from system")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
