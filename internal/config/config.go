package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds all application configuration
type Config struct {
	// Server settings
	ServerPort    int    `env:"SERVER_PORT" envDefault:"3002"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// TrustProxy takes the client address from X-Forwarded-For, honouring
	// only hops from loopback and private networks.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	// Content document store
	Store StoreConfig

	// Database settings, used only when STORE_BACKEND=postgres
	Database DatabaseConfig

	Admin AdminConfig

	Site SiteConfig

	Email EmailConfig

	// Storage configuration (media library and snapshots)
	Storage StorageConfig

	Snapshot SnapshotConfig

	RateLimit RateLimitConfig

	Tracing TracingConfig

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"3600s"` // long-lived SSE streams
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"3600s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Backend names accepted by STORE_BACKEND.
const (
	BackendBunt     = "bunt"
	BackendPostgres = "postgres"
)

// StoreConfig selects and tunes the content document store.
type StoreConfig struct {
	// Backend is "bunt" (embedded file, default) or "postgres".
	Backend string `env:"STORE_BACKEND" envDefault:"bunt"`
	// Path is the BuntDB file. ":memory:" keeps everything in process.
	Path string `env:"STORE_PATH" envDefault:"data/content.db"`
	// HistoryLimit is the number of previous revisions kept per document.
	HistoryLimit int `env:"STORE_HISTORY_LIMIT" envDefault:"20"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string        `env:"POSTGRES_USER" envDefault:"techsafi"`
	Password     string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database     string        `env:"POSTGRES_DB" envDefault:"techsafi"`
	SSLMode      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	QueryDebug   bool          `env:"DB_QUERY_DEBUG" envDefault:"false"`
	// AutoMigrate applies pending goose migrations when the store opens.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AdminConfig holds the single shared Control Centre credential.
type AdminConfig struct {
	// APIKey authenticates API clients via X-API-Key or a Bearer token.
	APIKey string `env:"ADMIN_API_KEY" envDefault:""`
	// PasswordHash is a bcrypt hash checked by the dashboard login form.
	PasswordHash string `env:"ADMIN_PASSWORD_HASH" envDefault:""`
	// SessionHashKey and SessionBlockKey sign and encrypt the session cookie.
	// Random keys are generated at startup when empty, which logs everyone out on restart.
	SessionHashKey  string        `env:"SESSION_HASH_KEY" envDefault:""`
	SessionBlockKey string        `env:"SESSION_BLOCK_KEY" envDefault:""`
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SecureCookie    bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
}

// IsConfigured returns true if at least one admin credential is set
func (a *AdminConfig) IsConfigured() bool {
	return a.APIKey != "" || a.PasswordHash != ""
}

// SiteConfig holds public site settings
type SiteConfig struct {
	Name    string `env:"SITE_NAME" envDefault:"tech.safi"`
	BaseURL string `env:"SITE_BASE_URL" envDefault:"http://localhost:3002"`
	// LiveReload injects the event-stream script that reloads a page when its content changes.
	LiveReload bool `env:"SITE_LIVE_RELOAD" envDefault:"true"`
}

// EmailConfig holds email service configuration
type EmailConfig struct {
	// Enabled determines if email sending is enabled
	Enabled bool `env:"EMAIL_ENABLED" envDefault:"false"`
	// MailgunDomain is the Mailgun domain
	MailgunDomain string `env:"MAILGUN_DOMAIN" envDefault:""`
	// MailgunAPIKey is the Mailgun API key
	MailgunAPIKey string `env:"MAILGUN_API_KEY" envDefault:""`
	// MailgunAPIBase selects the region, e.g. https://api.eu.mailgun.net/v3
	MailgunAPIBase string `env:"MAILGUN_API_BASE" envDefault:""`
	// FromEmail is the default from email address
	FromEmail string `env:"EMAIL_FROM_ADDRESS" envDefault:"noreply@techsafi.co.ke"`
	// FromName is the default from name
	FromName string `env:"EMAIL_FROM_NAME" envDefault:"tech.safi"`
	// NotifyAddress receives new contact submission notifications
	NotifyAddress string `env:"EMAIL_NOTIFY_ADDRESS" envDefault:""`
	// MaxRetries is the maximum number of send attempts (default: 3)
	MaxRetries int `env:"EMAIL_MAX_RETRIES" envDefault:"3"`
	// RetryDelay is the initial backoff between attempts
	RetryDelay time.Duration `env:"EMAIL_RETRY_DELAY" envDefault:"2s"`
}

// IsConfigured returns true if Mailgun is configured
func (e *EmailConfig) IsConfigured() bool {
	return e.MailgunDomain != "" && e.MailgunAPIKey != ""
}

// StorageConfig holds S3-compatible object storage configuration
type StorageConfig struct {
	Endpoint        string `env:"STORAGE_ENDPOINT" envDefault:""`
	AccessKeyID     string `env:"STORAGE_ACCESS_KEY" envDefault:""`
	SecretAccessKey string `env:"STORAGE_SECRET_KEY" envDefault:""`
	Bucket          string `env:"STORAGE_BUCKET" envDefault:"techsafi-media"`
	Region          string `env:"STORAGE_REGION" envDefault:"us-east-1"`
	// PublicURL is prefixed to object keys to build media URLs.
	// When empty, presigned URLs are issued instead.
	PublicURL string `env:"STORAGE_PUBLIC_URL" envDefault:""`
	// MaxUploadMB caps media uploads
	MaxUploadMB int `env:"STORAGE_MAX_UPLOAD_MB" envDefault:"10"`
}

// IsConfigured returns true if storage is configured
func (s *StorageConfig) IsConfigured() bool {
	return s.Endpoint != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// SnapshotConfig controls the scheduled content snapshot and history pruning.
type SnapshotConfig struct {
	Enabled  bool   `env:"SNAPSHOT_ENABLED" envDefault:"true"`
	Schedule string `env:"SNAPSHOT_SCHEDULE" envDefault:"0 0 3 * * *"`
	// Dir is used when object storage is not configured.
	Dir string `env:"SNAPSHOT_DIR" envDefault:"data/snapshots"`
	// Keep is the number of snapshots retained. Older ones are deleted.
	Keep          int           `env:"SNAPSHOT_KEEP" envDefault:"14"`
	PruneInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" envDefault:"1h"`
	TaskTimeout   time.Duration `env:"SCHEDULER_TASK_TIMEOUT" envDefault:"5m"`
}

// RateLimitConfig throttles the public contact form per client IP.
type RateLimitConfig struct {
	ContactPerMinute int `env:"CONTACT_RATE_PER_MINUTE" envDefault:"5"`
	ContactBurst     int `env:"CONTACT_RATE_BURST" envDefault:"3"`
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("store_backend", cfg.Store.Backend),
		slog.Bool("storage_configured", cfg.Storage.IsConfigured()),
		slog.Bool("admin_configured", cfg.Admin.IsConfigured()),
	)

	if !cfg.Admin.IsConfigured() {
		log.Warn("no admin credential set (ADMIN_API_KEY or ADMIN_PASSWORD_HASH); Control Centre is locked")
	}

	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT is "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendBunt, BackendPostgres:
	default:
		return fmt.Errorf("invalid STORE_BACKEND %q: must be %q or %q", c.Store.Backend, BackendBunt, BackendPostgres)
	}
	if c.Store.HistoryLimit < 0 {
		return fmt.Errorf("STORE_HISTORY_LIMIT must not be negative")
	}
	return nil
}
