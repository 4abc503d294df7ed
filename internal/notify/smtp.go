package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/brightnest/leads-api/internal/config"
)

// SMTPMailer sends email over SMTP with mailyak. It is the fallback when
// the API provider is unavailable.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg config.SMTPConfig, from string) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: from,
	}
}

func (m *SMTPMailer) Name() string { return "smtp" }

func (m *SMTPMailer) build(msg Message) *mailyak.MailYak {
	mail := mailyak.New(m.addr, m.auth)
	mail.To(msg.To...)
	mail.From(m.from)
	if msg.ReplyTo != "" {
		mail.ReplyTo(msg.ReplyTo)
	}
	mail.Subject(msg.Subject)
	if msg.Text != "" {
		mail.Plain().Set(msg.Text)
	}
	if msg.HTML != "" {
		mail.HTML().Set(msg.HTML)
	}
	return mail
}

// Send delivers the message. mailyak has no context support, so ctx is
// only checked before dialling.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.build(msg).Send(); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}
