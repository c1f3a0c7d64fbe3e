// Package mail delivers alarm notifications through an SMTP relay.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/heartmarshall/livecue-backend/internal/config"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Mailer sends plain-text messages. A zero SMTP host makes every send fail
// with domain.ErrTransport.
type Mailer struct {
	log    *slog.Logger
	from   string
	client sender
}

// New creates a mailer for cfg.
func New(logger *slog.Logger, cfg config.SMTPConfig) (*Mailer, error) {
	m := &Mailer{
		log:  logger.With("adapter", "mail"),
		from: cfg.From,
	}
	if !cfg.Enabled() {
		m.log.Info("smtp disabled, alarm emails will not be delivered")
		return m, nil
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(tlsPolicy(cfg.TLS)),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail client: %w", err)
	}
	m.client = client
	return m, nil
}

func tlsPolicy(s string) gomail.TLSPolicy {
	switch strings.ToLower(s) {
	case "mandatory":
		return gomail.TLSMandatory
	case "none":
		return gomail.NoTLS
	default:
		return gomail.TLSOpportunistic
	}
}

// Send delivers one message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.client == nil {
		return fmt.Errorf("mail.Send: smtp not configured: %w", domain.ErrTransport)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail.Send: from %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail.Send: to %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail.Send: %w: %w", domain.ErrTransport, err)
	}

	m.log.DebugContext(ctx, "mail sent", "to", to)
	return nil
}
