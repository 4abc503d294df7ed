package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL    = "https://services.leadconnectorhq.com"
	DefaultAPIVersion = "2021-07-28"
)

// Contact is the lead sent to the CRM
type Contact struct {
	Name       string   `json:"name,omitempty"`
	FirstName  string   `json:"firstName,omitempty"`
	LastName   string   `json:"lastName,omitempty"`
	Email      string   `json:"email,omitempty"`
	Phone      string   `json:"phone,omitempty"`
	PostalCode string   `json:"postalCode,omitempty"`
	Source     string   `json:"source,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	LocationID string   `json:"locationId"`
}

// QuoteOpportunity links a priced quote to a CRM contact
type QuoteOpportunity struct {
	ContactID    string
	QuoteID      string
	ServiceName  string
	EstimateLow  float64
	EstimateHigh float64
	QuoteURL     string
}

type opportunityPayload struct {
	PipelineID      string  `json:"pipelineId"`
	PipelineStageID string  `json:"pipelineStageId,omitempty"`
	LocationID      string  `json:"locationId"`
	ContactID       string  `json:"contactId"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	MonetaryValue   float64 `json:"monetaryValue"`
	Source          string  `json:"source,omitempty"`
}

type upsertContactResponse struct {
	New     bool `json:"new"`
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

type createOpportunityResponse struct {
	Opportunity struct {
		ID string `json:"id"`
	} `json:"opportunity"`
}

// Config configures the GoHighLevel (LeadConnector) client
type Config struct {
	BaseURL         string
	APIToken        string
	APIVersion      string
	LocationID      string
	PipelineID      string
	PipelineStageID string
}

// Client is a minimal GoHighLevel API client
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// UpsertContact creates or updates a contact matched on email/phone and
// returns its CRM id
func (c *Client) UpsertContact(ctx context.Context, contact Contact) (string, error) {
	contact.LocationID = c.cfg.LocationID
	if contact.FirstName == "" && contact.Name != "" {
		contact.FirstName, contact.LastName = splitName(contact.Name)
	}

	var resp upsertContactResponse
	if err := c.post(ctx, "/contacts/upsert", contact, &resp); err != nil {
		return "", fmt.Errorf("failed to upsert contact: %w", err)
	}
	if resp.Contact.ID == "" {
		return "", fmt.Errorf("no contact id in response")
	}
	return resp.Contact.ID, nil
}

// CreateOpportunity opens a pipeline opportunity for a quote and returns its id
func (c *Client) CreateOpportunity(ctx context.Context, opp QuoteOpportunity) (string, error) {
	if c.cfg.PipelineID == "" {
		return "", fmt.Errorf("no pipeline configured")
	}

	name := fmt.Sprintf("%s quote £%.0f-£%.0f", opp.ServiceName, math.Round(opp.EstimateLow), math.Round(opp.EstimateHigh))
	if opp.QuoteURL != "" {
		name += " " + opp.QuoteURL
	}

	payload := opportunityPayload{
		PipelineID:      c.cfg.PipelineID,
		PipelineStageID: c.cfg.PipelineStageID,
		LocationID:      c.cfg.LocationID,
		ContactID:       opp.ContactID,
		Name:            name,
		Status:          "open",
		MonetaryValue:   opp.EstimateHigh,
		Source:          "quote:" + opp.QuoteID,
	}

	var resp createOpportunityResponse
	if err := c.post(ctx, "/opportunities/", payload, &resp); err != nil {
		return "", fmt.Errorf("failed to create opportunity: %w", err)
	}
	return resp.Opportunity.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("Version", c.cfg.APIVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
