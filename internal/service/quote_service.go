package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightnest/leads-api/internal/coverage"
	"github.com/brightnest/leads-api/internal/metrics"
	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/pricing"
	"github.com/brightnest/leads-api/internal/repository"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// CoverageLookup resolves a postcode against the service area
type CoverageLookup interface {
	Lookup(postcode string) coverage.Area
}

// QuoteNotifier is told about every saved quote
type QuoteNotifier interface {
	QuoteCreated(ctx context.Context, q *models.QuoteRecord, quoteURL string)
}

// QuoteForwarder pushes a saved quote into the CRM
type QuoteForwarder interface {
	ForwardQuote(ctx context.Context, q *models.QuoteRecord, quoteURL string)
}

// QuoteServiceConfig holds the optional collaborators of a QuoteService.
// Nil collaborators are skipped.
type QuoteServiceConfig struct {
	Coverage      CoverageLookup
	Notifier      QuoteNotifier
	Forwarder     QuoteForwarder
	PublicBaseURL string
	Logger        *zap.Logger
}

// QuoteService prices, stores and distributes quote requests
type QuoteService struct {
	engine    *pricing.Engine
	repo      repository.QuoteRepository
	validator RequestValidator
	coverage  CoverageLookup
	notifier  QuoteNotifier
	forwarder QuoteForwarder
	baseURL   string
	log       *zap.Logger
}

func NewQuoteService(engine *pricing.Engine, repo repository.QuoteRepository, validator RequestValidator, cfg QuoteServiceConfig) *QuoteService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &QuoteService{
		engine:    engine,
		repo:      repo,
		validator: validator,
		coverage:  cfg.Coverage,
		notifier:  cfg.Notifier,
		forwarder: cfg.Forwarder,
		baseURL:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		log:       log,
	}
}

// Preview prices a request without saving it
func (s *QuoteService) Preview(ctx context.Context, body []byte) (*pricing.QuoteResult, error) {
	req, err := s.decode(body)
	if err != nil {
		return nil, err
	}
	s.applyCoverage(req)

	result := s.engine.Compute(req.QuoteInput)
	metrics.QuotesComputed.WithLabelValues(string(req.Service), "false").Inc()
	return &result, nil
}

// CreateQuote prices and saves a request, then notifies the office and
// customer and forwards the lead to the CRM
func (s *QuoteService) CreateQuote(ctx context.Context, body []byte) (*models.QuoteRecord, error) {
	req, err := s.decode(body)
	if err != nil {
		return nil, err
	}
	area := s.applyCoverage(req)

	record := &models.QuoteRecord{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Postcode:    req.Postcode,
		Source:      strings.TrimSpace(req.Source),
		Contact:     req.Contact,
		Input:       req.QuoteInput,
		Result:      s.engine.Compute(req.QuoteInput),
		ServiceArea: area,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save quote: %w", err)
	}

	metrics.QuotesComputed.WithLabelValues(string(record.Input.Service), "true").Inc()
	metrics.QuoteTotal.WithLabelValues(string(record.Input.Service)).Observe(record.Result.Total)
	s.log.Info("quote created",
		zap.String("quote_id", record.ID),
		zap.String("service", string(record.Input.Service)),
		zap.Float64("total", record.Result.Total),
	)

	// deliveries outlive a disconnected client
	deliverCtx := context.WithoutCancel(ctx)
	quoteURL := s.QuoteURL(record.ID)
	if s.notifier != nil {
		s.notifier.QuoteCreated(deliverCtx, record, quoteURL)
	}
	if s.forwarder != nil && record.Contact != nil {
		s.forwarder.ForwardQuote(deliverCtx, record, quoteURL)
	}

	return record, nil
}

// GetQuote returns a saved quote
func (s *QuoteService) GetQuote(ctx context.Context, id string) (*models.QuoteRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// ListQuotes returns the most recent quotes. limit is the raw query value.
func (s *QuoteService) ListQuotes(ctx context.Context, limit string) ([]models.QuoteRecord, error) {
	n := defaultListLimit
	if limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidRequest)
		}
		n = min(parsed, maxListLimit)
	}
	return s.repo.ListRecent(ctx, n)
}

// QuoteURL is the customer-facing link to a saved quote
func (s *QuoteService) QuoteURL(id string) string {
	return s.baseURL + "/quote/" + id
}

func (s *QuoteService) decode(body []byte) (*models.QuoteRequest, error) {
	if err := checkBody(s.validator.ValidateQuote(body)); err != nil {
		return nil, err
	}

	var req models.QuoteRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	req.Postcode = coverage.Normalize(req.Postcode)
	req.Contact = cleanContact(req.Contact)
	return &req, nil
}

// applyCoverage marks outer-area postcodes. A client-set outerArea flag is
// never cleared.
func (s *QuoteService) applyCoverage(req *models.QuoteRequest) *models.ServiceArea {
	if s.coverage == nil || req.Postcode == "" {
		return nil
	}

	area := s.coverage.Lookup(req.Postcode)
	if area.OuterArea {
		req.Modifiers.OuterArea = true
	}
	return &models.ServiceArea{
		District:  area.District,
		Served:    area.Served,
		OuterArea: area.OuterArea,
	}
}

func cleanContact(c *models.Contact) *models.Contact {
	if c == nil {
		return nil
	}
	cleaned := models.Contact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
	if cleaned == (models.Contact{}) {
		return nil
	}
	return &cleaned
}
