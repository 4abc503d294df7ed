package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/service"
	"github.com/brightnest/leads-api/internal/validation"
)

const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Details []validation.FieldError `json:"details,omitempty"`
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data any, log *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// WriteError writes an error response in JSON format
func WriteError(w http.ResponseWriter, status int, message string, log *zap.Logger) {
	WriteJSON(w, status, ErrorResponse{Error: message}, log)
}

// writeRequestError maps oversized bodies to a 413, service input errors to
// a 400 and anything else to a 500
func writeRequestError(w http.ResponseWriter, err error, log *zap.Logger) {
	var verr *service.ValidationError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), log)
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: verr.Fields}, log)
	case errors.Is(err, service.ErrInvalidRequest):
		WriteError(w, http.StatusBadRequest, "Invalid request body", log)
	default:
		log.Error("request failed", zap.Error(err))
		WriteError(w, http.StatusInternalServerError, "Internal server error", log)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrInvalidRequest, err)
	}
	return body, nil
}
