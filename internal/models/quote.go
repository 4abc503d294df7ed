package models

import (
	"time"

	"github.com/brightnest/leads-api/internal/pricing"
)

// Contact holds the customer details captured by a form
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// HasEmail reports whether the customer can be emailed
func (c *Contact) HasEmail() bool {
	return c != nil && c.Email != ""
}

// QuoteRequest is the body of POST /api/quotes
type QuoteRequest struct {
	pricing.QuoteInput
	Contact  *Contact `json:"contact,omitempty"`
	Postcode string   `json:"postcode,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// ServiceArea describes how the quote postcode is covered
type ServiceArea struct {
	District  string `json:"district,omitempty"`
	Served    bool   `json:"served"`
	OuterArea bool   `json:"outerArea"`
}

// QuoteRecord is a persisted quote
type QuoteRecord struct {
	ID          string              `json:"id"`
	CreatedAt   time.Time           `json:"createdAt"`
	Postcode    string              `json:"postcode,omitempty"`
	Source      string              `json:"source,omitempty"`
	Contact     *Contact            `json:"contact,omitempty"`
	Input       pricing.QuoteInput  `json:"input"`
	Result      pricing.QuoteResult `json:"result"`
	ServiceArea *ServiceArea        `json:"serviceArea,omitempty"`
}
