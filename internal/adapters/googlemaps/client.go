// Package googlemaps adapts the Google Maps Places and Directions APIs to the venue catalog
// and route optimizer ports.
package googlemaps

import (
	"fmt"
	"net/http"
	"strconv"

	"googlemaps.github.io/maps"

	"nightout/internal/domain"
)

// Config selects credentials and endpoint. BaseURL is only set to point at a test server.
type Config struct {
	APIKey     string
	BaseURL    string
	TravelMode string
	HTTPClient *http.Client
}

// NewClient builds the shared maps client used by Catalog and Optimizer.
func NewClient(cfg Config) (*maps.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("google maps: api key is required")
	}
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, maps.WithHTTPClient(cfg.HTTPClient))
	}
	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("google maps: %w", err)
	}
	return c, nil
}

func formatLatLng(l domain.LatLng) string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}
