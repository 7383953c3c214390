package googlemaps

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"googlemaps.github.io/maps"

	"nightout/internal/domain"
)

const placeURLPrefix = "https://www.google.com/maps/place/?q=place_id:"

// Catalog searches nearby places. Nearby search takes a single type per request, so one
// request is issued per included type and the results merged by place ID.
type Catalog struct {
	client *maps.Client
	now    func() time.Time
}

// NewCatalog returns a VenueCatalog backed by client.
func NewCatalog(client *maps.Client) *Catalog {
	return &Catalog{client: client, now: time.Now}
}

var _ domain.VenueCatalog = (*Catalog)(nil)

func (c *Catalog) Search(ctx context.Context, params domain.SearchParams) ([]*domain.Place, error) {
	types := params.IncludedTypes
	if len(types) == 0 {
		types = domain.DefaultVenueTypes
	}

	batches := make([][]maps.PlacesSearchResult, len(types))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		g.Go(func() error {
			resp, err := c.client.NearbySearch(gctx, &maps.NearbySearchRequest{
				Location: &maps.LatLng{Lat: params.Center.Lat, Lng: params.Center.Lng},
				Radius:   uint(params.RadiusMeters),
				Type:     maps.PlaceType(t),
			})
			if err != nil {
				return fmt.Errorf("nearby search %q: %w", t, err)
			}
			batches[i] = resp.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := c.now()
	seen := make(map[string]struct{})
	places := []*domain.Place{}
	for _, batch := range batches {
		for _, r := range batch {
			if r.PlaceID == "" {
				continue
			}
			if _, ok := seen[r.PlaceID]; ok {
				continue
			}
			seen[r.PlaceID] = struct{}{}
			places = append(places, toPlace(r, now))
		}
	}
	return places, nil
}

func toPlace(r maps.PlacesSearchResult, now time.Time) *domain.Place {
	address := r.Vicinity
	if address == "" {
		address = r.FormattedAddress
	}
	p := &domain.Place{
		Venue: domain.Venue{
			PlaceID: r.PlaceID,
			Name:    r.Name,
			Address: address,
			Lat:     r.Geometry.Location.Lat,
			Lng:     r.Geometry.Location.Lng,
		},
		Types:     r.Types,
		URL:       placeURLPrefix + r.PlaceID,
		UpdatedAt: now,
	}
	if r.UserRatingsTotal > 0 {
		rating := float64(r.Rating)
		total := r.UserRatingsTotal
		p.Rating = &rating
		p.UserRatingsTotal = &total
	}
	return p
}
