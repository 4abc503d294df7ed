package service

import (
	"context"

	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/pricing"
	"github.com/brightnest/leads-api/internal/repository"
)

// CatalogService lists the services on offer with their "from" prices
type CatalogService struct {
	repo  repository.ServiceRepository
	table pricing.Table
}

func NewCatalogService(repo repository.ServiceRepository, table pricing.Table) *CatalogService {
	return &CatalogService{
		repo:  repo,
		table: table,
	}
}

// ListServices returns all services in display order
func (s *CatalogService) ListServices(ctx context.Context) ([]models.CleaningService, error) {
	services, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range services {
		services[i].FromPrice = s.fromPrice(pricing.Service(services[i].Slug))
	}
	return services, nil
}

// GetService returns a service by slug
func (s *CatalogService) GetService(ctx context.Context, slug string) (*models.CleaningService, error) {
	service, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	service.FromPrice = s.fromPrice(pricing.Service(service.Slug))
	return service, nil
}

func (s *CatalogService) fromPrice(service pricing.Service) float64 {
	switch service {
	case pricing.ServiceEndOfTenancy:
		return cheapest(s.table.EndOfTenancy, s.table.Minimums.Domestic)
	case pricing.ServiceDeep:
		return cheapest(s.table.Deep, s.table.Minimums.Domestic)
	case pricing.ServiceCommercial:
		return s.table.Minimums.Commercial
	default:
		return s.table.Minimums.Domestic
	}
}

// cheapest is the lowest flat rate, never below the minimum charge
func cheapest(rates map[string]pricing.BedroomRate, floor float64) float64 {
	low := 0.0
	for _, rate := range rates {
		if low == 0 || rate.Price < low {
			low = rate.Price
		}
	}
	if low < floor {
		return floor
	}
	return low
}
