package service

import (
	"errors"
	"fmt"

	"github.com/brightnest/leads-api/internal/validation"
)

var (
	ErrInvalidRequest = errors.New("invalid request body")
)

// ValidationError reports the schema violations of a request body
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed: %d errors", len(e.Fields))
}

// RequestValidator checks raw request bodies before they are decoded
type RequestValidator interface {
	ValidateQuote(body []byte) ([]validation.FieldError, error)
	ValidateBooking(body []byte) ([]validation.FieldError, error)
}

func checkBody(fields []validation.FieldError, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
