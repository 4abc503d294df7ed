package pricing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Service selects the pricing branch for a quote
type Service string

const (
	ServiceEndOfTenancy Service = "endOfTenancy"
	ServiceDeep         Service = "deep"
	ServiceCommercial   Service = "commercial"
	ServiceCarpets      Service = "carpets"
)

// Services lists every priced service in display order
var Services = []Service{ServiceEndOfTenancy, ServiceDeep, ServiceCommercial, ServiceCarpets}

// DisplayName returns the customer-facing name of the service
func (s Service) DisplayName() string {
	switch s {
	case ServiceEndOfTenancy:
		return "End of Tenancy"
	case ServiceDeep:
		return "Deep Clean"
	case ServiceCommercial:
		return "Commercial Cleaning"
	case ServiceCarpets:
		return "Carpet & Upholstery"
	default:
		return string(s)
	}
}

// Domestic reports whether the service is priced against the domestic minimum
func (s Service) Domestic() bool {
	return s != ServiceCommercial
}

// BedroomKey identifies a property size bucket. Forms send it either as a
// string ("studio", "2", "5plus", "5+") or as a bare number.
type BedroomKey string

const bedrooms5Plus BedroomKey = "5plus"

// UnmarshalJSON accepts both JSON strings and numbers
func (b *BedroomKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = BedroomKey(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("bedrooms must be a string or number: %w", err)
	}
	*b = BedroomKey(n.String())
	// 2.0 and 2e0 share the "2" bucket
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e9 {
		*b = BedroomKey(strconv.FormatInt(int64(f), 10))
	}
	return nil
}

// Normalize maps "5+" onto the "5plus" bucket. Every other key is returned as is.
func (b BedroomKey) Normalize() BedroomKey {
	if b == "5+" {
		return bedrooms5Plus
	}
	return b
}

func (b BedroomKey) label() string {
	switch b {
	case "studio":
		return "studio"
	case bedrooms5Plus:
		return "5+ bed"
	default:
		return string(b) + " bed"
	}
}

// CarpetItems holds counts of carpet and upholstery line items
type CarpetItems struct {
	Room     int `json:"room,omitempty"`
	Stairs   int `json:"stairs,omitempty"`
	Rug      int `json:"rug,omitempty"`
	Sofa2    int `json:"sofa2,omitempty"`
	Sofa3    int `json:"sofa3,omitempty"`
	Armchair int `json:"armchair,omitempty"`
	Mattress int `json:"mattress,omitempty"`
}

// Addons holds optional extras for end of tenancy and deep cleans
type Addons struct {
	Oven      bool `json:"oven,omitempty"`
	Fridge    bool `json:"fridge,omitempty"`
	Cabinets  bool `json:"cabinets,omitempty"`
	Limescale bool `json:"limescale,omitempty"`
	Windows   int  `json:"windows,omitempty"`
}

// Modifiers holds job conditions that change the price
type Modifiers struct {
	Urgent    bool `json:"urgent,omitempty"`
	Weekend   bool `json:"weekend,omitempty"`
	NoLift    bool `json:"noLift,omitempty"`
	OuterArea bool `json:"outerArea,omitempty"`
}

// QuoteInput is a structured cleaning-service request
type QuoteInput struct {
	Service              Service     `json:"service"`
	Bedrooms             BedroomKey  `json:"bedrooms,omitempty"`
	AreaM2               float64     `json:"area_m2,omitempty"`
	Items                CarpetItems `json:"items"`
	Addons               Addons      `json:"addons"`
	Modifiers            Modifiers   `json:"modifiers"`
	VAT                  bool        `json:"vat"`
	BundleCarpetsWithEoT bool        `json:"bundleCarpetsWithEoT"`
}

// LineItem is a single labelled contribution to the quote
type LineItem struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// EstimateRange is the low/high display band around the total
type EstimateRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Scheduling is the suggested staffing for the job. BaseHours and
// DurationHours are nil when the service has no labour-hours figure.
type Scheduling struct {
	BaseHours     *float64 `json:"baseHours"`
	Crew          int      `json:"crew"`
	DurationHours *int     `json:"durationHours"`
}

// QuoteResult is the itemised price breakdown for a QuoteInput
type QuoteResult struct {
	LineItems     []LineItem    `json:"lineItems"`
	Subtotal      float64       `json:"subtotal"`
	VAT           float64       `json:"vat"`
	Total         float64       `json:"total"`
	EstimateRange EstimateRange `json:"estimateRange"`
	Scheduling    Scheduling    `json:"scheduling"`
	Notes         []string      `json:"notes"`
}
