package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/brightnest/leads-api/internal/models"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
)

// QuoteRepository stores computed quotes
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.QuoteRecord) error
	GetByID(ctx context.Context, id string) (*models.QuoteRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.QuoteRecord, error)
}

// InMemoryQuoteRepository implements QuoteRepository for development and tests
type InMemoryQuoteRepository struct {
	mu     sync.RWMutex
	quotes map[string]models.QuoteRecord
}

func NewInMemoryQuoteRepository() *InMemoryQuoteRepository {
	return &InMemoryQuoteRepository{
		quotes: make(map[string]models.QuoteRecord),
	}
}

func (r *InMemoryQuoteRepository) Create(ctx context.Context, quote *models.QuoteRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.quotes[quote.ID] = *quote
	return nil
}

func (r *InMemoryQuoteRepository) GetByID(ctx context.Context, id string) (*models.QuoteRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quote, exists := r.quotes[id]
	if !exists {
		return nil, ErrQuoteNotFound
	}
	return &quote, nil
}

// ListRecent returns up to limit quotes, newest first
func (r *InMemoryQuoteRepository) ListRecent(ctx context.Context, limit int) ([]models.QuoteRecord, error) {
	r.mu.RLock()
	quotes := make([]models.QuoteRecord, 0, len(r.quotes))
	for _, q := range r.quotes {
		quotes = append(quotes, q)
	}
	r.mu.RUnlock()

	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].CreatedAt.After(quotes[j].CreatedAt)
	})

	if limit > 0 && len(quotes) > limit {
		quotes = quotes[:limit]
	}
	return quotes, nil
}
