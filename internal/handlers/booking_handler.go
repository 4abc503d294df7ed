package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/repository"
	"github.com/brightnest/leads-api/internal/service"
)

// BookingHandler handles booking requests
type BookingHandler struct {
	bookings *service.BookingService
	log      *zap.Logger
}

func NewBookingHandler(bookings *service.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		log:      log,
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), body)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, booking, h.log)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			WriteError(w, http.StatusNotFound, "Booking not found", h.log)
			return
		}
		h.log.Error("failed to get booking", zap.String("booking_id", id), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, booking, h.log)
}
