package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/repository"
	"github.com/brightnest/leads-api/internal/service"
)

// QuoteHandler handles quote-related HTTP requests
type QuoteHandler struct {
	quotes *service.QuoteService
	log    *zap.Logger
}

func NewQuoteHandler(quotes *service.QuoteService, log *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		log:    log,
	}
}

// PreviewQuote handles POST /api/quotes/preview
func (h *QuoteHandler) PreviewQuote(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	result, err := h.quotes.Preview(r.Context(), body)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, result, h.log)
}

// CreateQuote handles POST /api/quotes
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	record, err := h.quotes.CreateQuote(r.Context(), body)
	if err != nil {
		writeRequestError(w, err, h.log)
		return
	}

	w.Header().Set("Location", "/api/quotes/"+record.ID)
	WriteJSON(w, http.StatusCreated, record, h.log)
}

// GetQuote handles GET /api/quotes/{id}
func (h *QuoteHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.quotes.GetQuote(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrQuoteNotFound) {
			WriteError(w, http.StatusNotFound, "Quote not found", h.log)
			return
		}
		h.log.Error("failed to get quote", zap.String("quote_id", id), zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, record, h.log)
}

// ListQuotes handles GET /api/quotes?limit=N
func (h *QuoteHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	records, err := h.quotes.ListQuotes(r.Context(), r.URL.Query().Get("limit"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			WriteError(w, http.StatusBadRequest, "limit must be a positive integer", h.log)
			return
		}
		writeRequestError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, records, h.log)
}
