package email

import (
	"time"

	"github.com/mastermind-creat/techsafi/internal/config"
)

const defaultQueueSize = 100

// Config is the slice of settings the email package needs.
type Config struct {
	Enabled       bool
	MailgunDomain string
	MailgunAPIKey string
	// APIBase overrides the Mailgun endpoint, e.g. the EU region.
	APIBase   string
	FromEmail string
	FromName  string
	// NotifyAddress receives lead notifications. Empty disables them.
	NotifyAddress string
	MaxRetries    int
	RetryDelay    time.Duration
	QueueSize     int
}

func NewConfig(cfg *config.Config) *Config {
	ec := cfg.Email
	return &Config{
		Enabled:       ec.Enabled,
		MailgunDomain: ec.MailgunDomain,
		MailgunAPIKey: ec.MailgunAPIKey,
		APIBase:       ec.MailgunAPIBase,
		FromEmail:     ec.FromEmail,
		FromName:      ec.FromName,
		NotifyAddress: ec.NotifyAddress,
		MaxRetries:    ec.MaxRetries,
		RetryDelay:    ec.RetryDelay,
		QueueSize:     defaultQueueSize,
	}
}

func (c *Config) IsConfigured() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != ""
}
