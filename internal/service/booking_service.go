package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/coverage"
	"github.com/brightnest/leads-api/internal/metrics"
	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/repository"
)

type BookingNotifier interface {
	BookingCreated(ctx context.Context, b *models.Booking)
}

type BookingForwarder interface {
	ForwardBooking(ctx context.Context, b *models.Booking)
}

// BookingService stores booking requests and passes them on
type BookingService struct {
	repo      repository.BookingRepository
	validator RequestValidator
	notifier  BookingNotifier
	forwarder BookingForwarder
	log       *zap.Logger
}

// NewBookingService creates a booking service. notifier and forwarder may be nil.
func NewBookingService(repo repository.BookingRepository, validator RequestValidator, notifier BookingNotifier, forwarder BookingForwarder, log *zap.Logger) *BookingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		forwarder: forwarder,
		log:       log,
	}
}

// CreateBooking validates and saves a booking request
func (s *BookingService) CreateBooking(ctx context.Context, body []byte) (*models.Booking, error) {
	if err := checkBody(s.validator.ValidateBooking(body)); err != nil {
		return nil, err
	}

	var req models.BookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Postcode = coverage.Normalize(req.Postcode)
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	booking := &models.Booking{
		ID:             uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
		BookingRequest: req,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	metrics.BookingsCreated.Inc()
	s.log.Info("booking created", zap.String("booking_id", booking.ID), zap.String("service", booking.Service))

	deliverCtx := context.WithoutCancel(ctx)
	if s.notifier != nil {
		s.notifier.BookingCreated(deliverCtx, booking)
	}
	if s.forwarder != nil {
		s.forwarder.ForwardBooking(deliverCtx, booking)
	}

	return booking, nil
}

// GetBooking returns a saved booking
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}
