package models

import "time"

// BookingRequest is the body of POST /api/bookings
type BookingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Service       string `json:"service"`
	Postcode      string `json:"postcode,omitempty"`
	PreferredDate string `json:"preferredDate,omitempty"`
	PreferredTime string `json:"preferredTime,omitempty"`
	Notes         string `json:"notes,omitempty"`
	QuoteID       string `json:"quoteId,omitempty"`
}

// Booking is a persisted booking request
type Booking struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	BookingRequest
}
