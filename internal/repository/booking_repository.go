package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/brightnest/leads-api/internal/models"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

// BookingRepository stores booking requests
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

type InMemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewInMemoryBookingRepository() *InMemoryBookingRepository {
	return &InMemoryBookingRepository{
		bookings: make(map[string]models.Booking),
	}
}

func (r *InMemoryBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

func (r *InMemoryBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, exists := r.bookings[id]
	if !exists {
		return nil, ErrBookingNotFound
	}
	return &booking, nil
}
