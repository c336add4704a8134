package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/mastermind-creat/techsafi/pkg/logger"
)

const sendTimeout = 30 * time.Second

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, opts SendOptions) (*SendResult, error)
}

type SendOptions struct {
	To      string
	ToName  string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
	// Tag labels the message in the provider's analytics, usually the template name.
	Tag string
}

type SendResult struct {
	MessageID string
}

// NewSender returns the Mailgun sender when email is enabled and configured,
// and a logging sender otherwise.
func NewSender(log *slog.Logger, cfg *Config) Sender {
	log = log.With(logger.Scope("email"))
	switch {
	case !cfg.Enabled:
		log.Info("email disabled, messages will only be logged")
	case !cfg.IsConfigured():
		log.Warn("EMAIL_ENABLED is set but Mailgun is not configured, messages will only be logged")
	default:
		log.Info("sending email through Mailgun", slog.String("domain", cfg.MailgunDomain), slog.String("from", cfg.FromEmail))
		return NewMailgunSender(cfg, log)
	}
	return &noOpSender{log: log}
}

// MailgunSender sends through the Mailgun HTTP API.
type MailgunSender struct {
	from   string
	client *mailgun.MailgunImpl
	log    *slog.Logger
}

func NewMailgunSender(cfg *Config, log *slog.Logger) *MailgunSender {
	mg := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	return &MailgunSender{
		from:   address(cfg.FromName, cfg.FromEmail),
		client: mg,
		log:    log,
	}
}

// Send returns provider errors unchanged so the worker can retry them.
func (s *MailgunSender) Send(ctx context.Context, opts SendOptions) (*SendResult, error) {
	msg := s.client.NewMessage(s.from, opts.Subject, opts.Text, address(opts.ToName, opts.To))
	if opts.HTML != "" {
		msg.SetHtml(opts.HTML)
	}
	if opts.ReplyTo != "" {
		msg.SetReplyTo(opts.ReplyTo)
	}
	if opts.Tag != "" {
		if err := msg.AddTag(opts.Tag); err != nil {
			s.log.Debug("tag rejected", slog.String("tag", opts.Tag), logger.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, id, err := s.client.Send(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("mailgun: %w", err)
	}
	s.log.Info("email sent", slog.String("to", opts.To), slog.String("message_id", id))
	return &SendResult{MessageID: id}, nil
}

// address formats "Name <addr>", quoting the name when needed.
func address(name, addr string) string {
	if name == "" {
		return addr
	}
	return (&mail.Address{Name: name, Address: addr}).String()
}

type noOpSender struct {
	log *slog.Logger
}

func (s *noOpSender) Send(_ context.Context, opts SendOptions) (*SendResult, error) {
	s.log.Info("email not sent",
		slog.String("to", opts.To),
		slog.String("subject", opts.Subject),
		slog.String("tag", opts.Tag),
	)
	return &SendResult{MessageID: "noop-" + opts.To}, nil
}
