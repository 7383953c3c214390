package domain

import (
	"context"
	"time"
)

// Search radius bounds in meters.
const (
	DefaultSearchRadius = 1000
	MinSearchRadius     = 1000
	MaxSearchRadius     = 50000
)

// DefaultVenueTypes is used when a search does not name any place types.
var DefaultVenueTypes = []string{"bar"}

// LatLng is an immutable geographic coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Venue is the minimal projection of a place that a route keeps.
// swagger:model Venue
type Venue struct {
	PlaceID string  `json:"place_id"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Location returns the venue coordinates.
func (v Venue) Location() LatLng {
	return LatLng{Lat: v.Lat, Lng: v.Lng}
}

// Place is a catalog search result: a Venue plus provider metadata.
// swagger:model Place
type Place struct {
	Venue
	Types            []string  `json:"types"`
	Rating           *float64  `json:"rating"`
	UserRatingsTotal *int      `json:"user_ratings_total"`
	URL              string    `json:"url"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SearchParams describes a nearby search. Use NewSearchParams to get defaults and clamping.
type SearchParams struct {
	Center        LatLng
	RadiusMeters  int
	IncludedTypes []string
}

// NewSearchParams returns search params with the radius clamped to [MinSearchRadius, MaxSearchRadius]
// and types defaulting to DefaultVenueTypes.
func NewSearchParams(center LatLng, radius int, types []string) SearchParams {
	if radius <= 0 {
		radius = DefaultSearchRadius
	}
	if radius < MinSearchRadius {
		radius = MinSearchRadius
	}
	if radius > MaxSearchRadius {
		radius = MaxSearchRadius
	}
	var cleaned []string
	for _, t := range types {
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append([]string(nil), DefaultVenueTypes...)
	}
	return SearchParams{Center: center, RadiusMeters: radius, IncludedTypes: cleaned}
}

// VenueCatalog searches an external places provider.
type VenueCatalog interface {
	Search(ctx context.Context, params SearchParams) ([]*Place, error)
}

// VenueRepository persists catalog results keyed by place ID.
type VenueRepository interface {
	Upsert(ctx context.Context, place *Place) error
	GetByPlaceID(ctx context.Context, placeID string) (*Place, error)
}

// VenueService searches the catalog and records every result.
type VenueService interface {
	Search(ctx context.Context, params SearchParams) ([]*Place, error)
}
