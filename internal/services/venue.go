package services

import (
	"context"
	"fmt"
	"time"

	"nightout/internal/domain"
	"nightout/internal/metrics"
)

type venueService struct {
	catalog        domain.VenueCatalog
	venueRepo      domain.VenueRepository
	metrics        *metrics.Metrics
	contextTimeout time.Duration
}

// NewVenueService returns a VenueService that searches catalog and records every result in venueRepo.
func NewVenueService(catalog domain.VenueCatalog, venueRepo domain.VenueRepository, m *metrics.Metrics, timeout time.Duration) domain.VenueService {
	return &venueService{
		catalog:        catalog,
		venueRepo:      venueRepo,
		metrics:        m,
		contextTimeout: timeout,
	}
}

// Search runs a nearby search. Results without a place ID are dropped since they cannot be
// added to a route. A failed write to the venue store fails the whole call.
func (s *venueService) Search(ctx context.Context, params domain.SearchParams) ([]*domain.Place, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	found, err := s.catalog.Search(ctx, params)
	if err != nil {
		s.metrics.CatalogSearch("error")
		return nil, fmt.Errorf("search venues: %w", err)
	}
	s.metrics.CatalogSearch("ok")

	places := make([]*domain.Place, 0, len(found))
	for _, p := range found {
		if p == nil || p.PlaceID == "" {
			continue
		}
		if err := s.venueRepo.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("save venue %s: %w", p.PlaceID, err)
		}
		places = append(places, p)
	}
	return places, nil
}
