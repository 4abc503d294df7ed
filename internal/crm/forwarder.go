package crm

import (
	"context"

	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/metrics"
	"github.com/brightnest/leads-api/internal/models"
)

// ContactUpserter is the part of Client the forwarder needs
type ContactUpserter interface {
	UpsertContact(ctx context.Context, contact Contact) (string, error)
	CreateOpportunity(ctx context.Context, opp QuoteOpportunity) (string, error)
}

// Forwarder pushes captured leads into the CRM. Failures are logged and
// counted, never returned.
type Forwarder struct {
	client ContactUpserter
	log    *zap.Logger
}

func NewForwarder(client ContactUpserter, log *zap.Logger) *Forwarder {
	return &Forwarder{client: client, log: log}
}

// ForwardQuote upserts the quote contact and opens an opportunity for it
func (f *Forwarder) ForwardQuote(ctx context.Context, q *models.QuoteRecord, quoteURL string) {
	if q.Contact == nil || (q.Contact.Email == "" && q.Contact.Phone == "") {
		return
	}
	log := f.log.With(zap.String("quote_id", q.ID))

	contactID, err := f.client.UpsertContact(ctx, Contact{
		Name:       q.Contact.Name,
		Email:      q.Contact.Email,
		Phone:      q.Contact.Phone,
		PostalCode: q.Postcode,
		Source:     sourceOr(q.Source, "website quote"),
		Tags:       []string{"quote", string(q.Input.Service)},
	})
	metrics.CRMForwards.WithLabelValues("upsert_contact", metrics.Result(err)).Inc()
	if err != nil {
		log.Error("crm contact upsert failed", zap.Error(err))
		return
	}

	oppID, err := f.client.CreateOpportunity(ctx, QuoteOpportunity{
		ContactID:    contactID,
		QuoteID:      q.ID,
		ServiceName:  q.Input.Service.DisplayName(),
		EstimateLow:  q.Result.EstimateRange.Low,
		EstimateHigh: q.Result.EstimateRange.High,
		QuoteURL:     quoteURL,
	})
	metrics.CRMForwards.WithLabelValues("create_opportunity", metrics.Result(err)).Inc()
	if err != nil {
		log.Error("crm opportunity failed", zap.String("contact_id", contactID), zap.Error(err))
		return
	}

	log.Info("quote forwarded to crm", zap.String("contact_id", contactID), zap.String("opportunity_id", oppID))
}

// ForwardBooking upserts the booking contact tagged "booking"
func (f *Forwarder) ForwardBooking(ctx context.Context, b *models.Booking) {
	log := f.log.With(zap.String("booking_id", b.ID))

	contactID, err := f.client.UpsertContact(ctx, Contact{
		Name:       b.Name,
		Email:      b.Email,
		Phone:      b.Phone,
		PostalCode: b.Postcode,
		Source:     "website booking",
		Tags:       []string{"booking", b.Service},
	})
	metrics.CRMForwards.WithLabelValues("upsert_contact", metrics.Result(err)).Inc()
	if err != nil {
		log.Error("crm contact upsert failed", zap.Error(err))
		return
	}

	log.Info("booking forwarded to crm", zap.String("contact_id", contactID))
}

func sourceOr(source, fallback string) string {
	if source != "" {
		return source
	}
	return fallback
}
