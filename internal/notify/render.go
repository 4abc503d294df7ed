package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/pricing"
)

var quoteHTML = template.Must(template.New("quote").Funcs(template.FuncMap{"gbp": FormatGBP}).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>{{.Heading}}</h2>
  <p>{{.Intro}}</p>
  <table style="width: 100%; border-collapse: collapse;">
    {{range .Result.LineItems}}<tr><td>{{.Label}}</td><td style="text-align: right;">{{gbp .Amount}}</td></tr>
    {{end}}<tr><td><strong>Subtotal</strong></td><td style="text-align: right;">{{gbp .Result.Subtotal}}</td></tr>
    {{if .Result.VAT}}<tr><td>VAT</td><td style="text-align: right;">{{gbp .Result.VAT}}</td></tr>{{end}}
    <tr><td><strong>Total</strong></td><td style="text-align: right;"><strong>{{gbp .Result.Total}}</strong></td></tr>
  </table>
  <p>Estimated range: {{gbp .Result.EstimateRange.Low}} to {{gbp .Result.EstimateRange.High}}</p>
  {{if .QuoteURL}}<p><a href="{{.QuoteURL}}">View your quote online</a></p>{{end}}
  {{range .Result.Notes}}<p style="color: #6b7280; font-size: 12px;">{{.}}</p>{{end}}
</div>
`))

type quoteView struct {
	Heading  string
	Intro    string
	Result   pricing.QuoteResult
	QuoteURL string
}

// RenderQuote builds the plain text summary of a quote
func RenderQuote(q *models.QuoteRecord, quoteURL string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Service: %s\n", q.Input.Service.DisplayName())
	if q.Input.Bedrooms != "" {
		fmt.Fprintf(&b, "Bedrooms: %s\n", q.Input.Bedrooms)
	}
	if q.Input.AreaM2 > 0 {
		fmt.Fprintf(&b, "Floor area: %g m2\n", q.Input.AreaM2)
	}
	if q.Postcode != "" {
		fmt.Fprintf(&b, "Postcode: %s\n", q.Postcode)
	}
	b.WriteString("\n")

	for _, li := range q.Result.LineItems {
		fmt.Fprintf(&b, "  %-48s %12s\n", li.Label, FormatGBP(li.Amount))
	}
	fmt.Fprintf(&b, "  %-48s %12s\n", "Subtotal", FormatGBP(q.Result.Subtotal))
	if q.Result.VAT > 0 {
		fmt.Fprintf(&b, "  %-48s %12s\n", "VAT", FormatGBP(q.Result.VAT))
	}
	fmt.Fprintf(&b, "  %-48s %12s\n", "Total", FormatGBP(q.Result.Total))
	fmt.Fprintf(&b, "\nEstimated range: %s to %s\n", FormatGBP(q.Result.EstimateRange.Low), FormatGBP(q.Result.EstimateRange.High))

	s := q.Result.Scheduling
	if s.DurationHours != nil {
		fmt.Fprintf(&b, "Suggested crew: %d cleaner(s) for about %d hour(s)\n", s.Crew, *s.DurationHours)
	}

	if quoteURL != "" {
		fmt.Fprintf(&b, "\nView online: %s\n", quoteURL)
	}

	for _, note := range q.Result.Notes {
		fmt.Fprintf(&b, "\n%s", note)
	}
	b.WriteString("\n")

	return b.String()
}

// QuoteOfficeEmail is the internal lead alert for a new quote
func QuoteOfficeEmail(q *models.QuoteRecord, quoteURL string, to []string) (Message, error) {
	var contact strings.Builder
	replyTo := ""
	if q.Contact != nil {
		fmt.Fprintf(&contact, "Name: %s\nEmail: %s\nPhone: %s\n", q.Contact.Name, q.Contact.Email, q.Contact.Phone)
		replyTo = q.Contact.Email
	}
	if q.Source != "" {
		fmt.Fprintf(&contact, "Source: %s\n", q.Source)
	}

	urgent := ""
	if q.Input.Modifiers.Urgent {
		urgent = "URGENT "
	}

	html, err := renderQuoteHTML(quoteView{
		Heading:  "New quote request",
		Intro:    "A customer has requested a quote from the website.",
		Result:   q.Result,
		QuoteURL: quoteURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		ReplyTo: replyTo,
		Subject: fmt.Sprintf("%sNew %s quote: %s", urgent, q.Input.Service.DisplayName(), FormatGBP(q.Result.Total)),
		Text:    contact.String() + "\n" + RenderQuote(q, quoteURL),
		HTML:    html,
	}, nil
}

// QuoteCustomerEmail is the copy of the quote sent to the customer
func QuoteCustomerEmail(q *models.QuoteRecord, quoteURL string) (Message, error) {
	name := "there"
	if q.Contact != nil && q.Contact.Name != "" {
		name = q.Contact.Name
	}

	html, err := renderQuoteHTML(quoteView{
		Heading:  fmt.Sprintf("Hi %s, here is your quote", name),
		Intro:    "Thanks for getting in touch. Reply to this email or book online to confirm a date.",
		Result:   q.Result,
		QuoteURL: quoteURL,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      []string{q.Contact.Email},
		Subject: fmt.Sprintf("Your %s quote: %s", q.Input.Service.DisplayName(), FormatGBP(q.Result.Total)),
		Text:    fmt.Sprintf("Hi %s,\n\nThanks for getting in touch. Here is your quote.\n\n%s", name, RenderQuote(q, quoteURL)),
		HTML:    html,
	}, nil
}

func renderQuoteHTML(view quoteView) (string, error) {
	var buf bytes.Buffer
	if err := quoteHTML.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render quote email: %w", err)
	}
	return buf.String(), nil
}

// RenderBooking builds the plain text summary of a booking
func RenderBooking(b *models.Booking) string {
	var s strings.Builder

	fmt.Fprintf(&s, "Reference: %s\n", b.ID)
	fmt.Fprintf(&s, "Name: %s\n", b.Name)
	fmt.Fprintf(&s, "Email: %s\n", b.Email)
	fmt.Fprintf(&s, "Phone: %s\n", b.Phone)
	fmt.Fprintf(&s, "Service: %s\n", pricing.Service(b.Service).DisplayName())

	optional := []struct{ label, value string }{
		{"Postcode", b.Postcode},
		{"Preferred date", b.PreferredDate},
		{"Preferred time", b.PreferredTime},
		{"Quote", b.QuoteID},
		{"Notes", b.Notes},
	}
	for _, o := range optional {
		if o.value != "" {
			fmt.Fprintf(&s, "%s: %s\n", o.label, o.value)
		}
	}

	return s.String()
}

// BookingOfficeEmail is the internal alert for a new booking request
func BookingOfficeEmail(b *models.Booking, to []string) Message {
	return Message{
		To:      to,
		ReplyTo: b.Email,
		Subject: fmt.Sprintf("New booking request: %s (%s)", pricing.Service(b.Service).DisplayName(), b.Name),
		Text:    RenderBooking(b),
	}
}

// BookingCustomerEmail confirms receipt of the booking request
func BookingCustomerEmail(b *models.Booking) Message {
	return Message{
		To:      []string{b.Email},
		Subject: "We have received your booking request",
		Text: fmt.Sprintf(
			"Hi %s,\n\nThanks for your booking request. We will call you within one working day to confirm the details.\n\n%s",
			b.Name, RenderBooking(b),
		),
	}
}
