package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoRecipients is returned when a message has nobody to go to
var ErrNoRecipients = errors.New("message has no recipients")

// Message is a provider-neutral email
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers email through a single provider
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// NopMailer discards messages. Used when email.provider is "none".
type NopMailer struct{}

func (NopMailer) Send(ctx context.Context, msg Message) error { return nil }
func (NopMailer) Name() string                                { return "none" }

// FallbackMailer sends through the primary provider and retries once on
// the fallback provider when the primary fails.
type FallbackMailer struct {
	primary  Mailer
	fallback Mailer
	log      *zap.Logger
}

func NewFallbackMailer(primary, fallback Mailer, log *zap.Logger) *FallbackMailer {
	return &FallbackMailer{primary: primary, fallback: fallback, log: log}
}

func (m *FallbackMailer) Name() string {
	return m.primary.Name() + "+" + m.fallback.Name()
}

func (m *FallbackMailer) Send(ctx context.Context, msg Message) error {
	err := m.primary.Send(ctx, msg)
	if err == nil {
		return nil
	}

	m.log.Warn("primary mailer failed, trying fallback",
		zap.String("primary", m.primary.Name()),
		zap.String("fallback", m.fallback.Name()),
		zap.Error(err),
	)

	if fbErr := m.fallback.Send(ctx, msg); fbErr != nil {
		return errors.Join(err, fbErr)
	}
	return nil
}
