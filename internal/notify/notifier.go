package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/metrics"
	"github.com/brightnest/leads-api/internal/models"
)

// Notifier fans a new lead out to the office and the customer. Every
// delivery failure is logged and counted; none is returned.
type Notifier struct {
	mailer      Mailer
	texter      Texter
	officeTo    []string
	officePhone string
	log         *zap.Logger
}

type NotifierConfig struct {
	OfficeTo    string // comma separated
	OfficePhone string
}

func NewNotifier(mailer Mailer, texter Texter, cfg NotifierConfig, log *zap.Logger) *Notifier {
	if mailer == nil {
		mailer = NopMailer{}
	}
	if texter == nil {
		texter = NopTexter{}
	}

	var officeTo []string
	for _, addr := range strings.Split(cfg.OfficeTo, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			officeTo = append(officeTo, addr)
		}
	}

	return &Notifier{
		mailer:      mailer,
		texter:      texter,
		officeTo:    officeTo,
		officePhone: cfg.OfficePhone,
		log:         log,
	}
}

// QuoteCreated sends the office alert, the customer copy when an email
// address was given, and an SMS for urgent jobs.
func (n *Notifier) QuoteCreated(ctx context.Context, q *models.QuoteRecord, quoteURL string) {
	log := n.log.With(zap.String("quote_id", q.ID))

	if len(n.officeTo) > 0 {
		msg, err := QuoteOfficeEmail(q, quoteURL, n.officeTo)
		if err == nil {
			err = n.mailer.Send(ctx, msg)
		}
		n.record(log, "email_office", err)
	}

	if q.Contact.HasEmail() {
		msg, err := QuoteCustomerEmail(q, quoteURL)
		if err == nil {
			err = n.mailer.Send(ctx, msg)
		}
		n.record(log, "email_customer", err)
	}

	if q.Input.Modifiers.Urgent && n.officePhone != "" {
		text := fmt.Sprintf("Urgent %s quote %s (%s)", q.Input.Service.DisplayName(), FormatGBP(q.Result.Total), q.Postcode)
		if q.Contact != nil && q.Contact.Phone != "" {
			text += " call " + q.Contact.Phone
		}
		n.record(log, "sms", n.texter.SendSMS(ctx, n.officePhone, text))
	}
}

// BookingCreated sends the office alert and the customer confirmation
func (n *Notifier) BookingCreated(ctx context.Context, b *models.Booking) {
	log := n.log.With(zap.String("booking_id", b.ID))

	if len(n.officeTo) > 0 {
		n.record(log, "email_office", n.mailer.Send(ctx, BookingOfficeEmail(b, n.officeTo)))
	}
	if b.Email != "" {
		n.record(log, "email_customer", n.mailer.Send(ctx, BookingCustomerEmail(b)))
	}
}

func (n *Notifier) record(log *zap.Logger, channel string, err error) {
	metrics.NotificationsSent.WithLabelValues(channel, metrics.Result(err)).Inc()
	if err != nil {
		log.Warn("notification failed", zap.String("channel", channel), zap.Error(err))
		return
	}
	log.Debug("notification sent", zap.String("channel", channel))
}
