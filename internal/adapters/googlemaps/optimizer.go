package googlemaps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"nightout/internal/domain"
)

// ErrNoRoute is returned when the directions API answers without any route.
var ErrNoRoute = errors.New("google maps: no route returned")

// Optimizer asks the Directions API to reorder waypoints. The first route's waypoint_order
// is returned as is; reconciling it with the plan is the caller's job.
type Optimizer struct {
	client *maps.Client
	mode   maps.Mode
}

// NewOptimizer returns a RouteOptimizer. travelMode is one of driving, walking, bicycling or
// transit; anything else falls back to driving.
func NewOptimizer(client *maps.Client, travelMode string) *Optimizer {
	mode := maps.TravelModeDriving
	switch maps.Mode(travelMode) {
	case maps.TravelModeWalking, maps.TravelModeBicycling, maps.TravelModeTransit:
		mode = maps.Mode(travelMode)
	}
	return &Optimizer{client: client, mode: mode}
}

var _ domain.RouteOptimizer = (*Optimizer)(nil)

func (o *Optimizer) Optimize(ctx context.Context, origin, destination domain.LatLng, waypoints []domain.LatLng) ([]int, error) {
	req := &maps.DirectionsRequest{
		Origin:      formatLatLng(origin),
		Destination: formatLatLng(destination),
		Mode:        o.mode,
		Optimize:    len(waypoints) > 1,
	}
	for _, w := range waypoints {
		req.Waypoints = append(req.Waypoints, formatLatLng(w))
	}

	routes, _, err := o.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoute
	}
	if len(waypoints) == 1 && len(routes[0].WaypointOrder) == 0 {
		return []int{0}, nil
	}
	return routes[0].WaypointOrder, nil
}
