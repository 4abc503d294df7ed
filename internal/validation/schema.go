package validation

import (
	"embed"
	"fmt"
	"sort"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// FieldError describes a single schema violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Validator checks request bodies against the compiled JSON schemas
type Validator struct {
	quote   *gojsonschema.Schema
	booking *gojsonschema.Schema
}

// New compiles the embedded request schemas
func New() (*Validator, error) {
	quote, err := compile("schemas/quote.json")
	if err != nil {
		return nil, err
	}
	booking, err := compile("schemas/booking.json")
	if err != nil {
		return nil, err
	}
	return &Validator{quote: quote, booking: booking}, nil
}

func compile(name string) (*gojsonschema.Schema, error) {
	raw, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return schema, nil
}

// ValidateQuote validates a quote request body. The error is non-nil only
// when the body is not a JSON document.
func (v *Validator) ValidateQuote(body []byte) ([]FieldError, error) {
	return validate(v.quote, body)
}

// ValidateBooking validates a booking request body
func (v *Validator) ValidateBooking(body []byte) ([]FieldError, error) {
	return validate(v.booking, body)
}

func validate(schema *gojsonschema.Schema, body []byte) ([]FieldError, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	errs := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, FieldError{
			Field:   fieldName(desc),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Field < errs[j].Field
	})
	return errs, nil
}

// fieldName reports the offending property. For "required" errors
// gojsonschema points at the parent object, so the missing property is
// appended from the error details.
func fieldName(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if desc.Type() != "required" {
		return field
	}

	property, _ := desc.Details()["property"].(string)
	if field == "(root)" || field == "" {
		return property
	}
	return field + "." + property
}
