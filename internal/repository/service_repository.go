package repository

import (
	"context"
	"errors"

	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/pricing"
)

var (
	ErrServiceNotFound = errors.New("service not found")
)

// ServiceRepository defines the interface for catalog data access
type ServiceRepository interface {
	GetAll(ctx context.Context) ([]models.CleaningService, error)
	GetBySlug(ctx context.Context, slug string) (*models.CleaningService, error)
}

// InMemoryServiceRepository implements ServiceRepository with in-memory storage
type InMemoryServiceRepository struct {
	services map[string]models.CleaningService
	order    []string
}

// NewInMemoryServiceRepository creates the catalog of priced services
func NewInMemoryServiceRepository() *InMemoryServiceRepository {
	summaries := map[pricing.Service]string{
		pricing.ServiceEndOfTenancy: "Checklist clean for move-outs, built around letting agent inventories.",
		pricing.ServiceDeep:         "Top to bottom clean of kitchens, bathrooms and living areas.",
		pricing.ServiceCommercial:   "Offices, shops and communal areas priced by floor area.",
		pricing.ServiceCarpets:      "Hot water extraction for carpets, rugs, sofas and mattresses.",
	}

	services := make(map[string]models.CleaningService, len(pricing.Services))
	order := make([]string, 0, len(pricing.Services))
	for _, s := range pricing.Services {
		slug := string(s)
		services[slug] = models.CleaningService{
			Slug:    slug,
			Name:    s.DisplayName(),
			Summary: summaries[s],
		}
		order = append(order, slug)
	}

	return &InMemoryServiceRepository{
		services: services,
		order:    order,
	}
}

// GetAll returns all services in display order
func (r *InMemoryServiceRepository) GetAll(ctx context.Context) ([]models.CleaningService, error) {
	services := make([]models.CleaningService, 0, len(r.order))
	for _, slug := range r.order {
		services = append(services, r.services[slug])
	}
	return services, nil
}

// GetBySlug returns a service by its slug
func (r *InMemoryServiceRepository) GetBySlug(ctx context.Context, slug string) (*models.CleaningService, error) {
	service, exists := r.services[slug]
	if !exists {
		return nil, ErrServiceNotFound
	}
	return &service, nil
}
