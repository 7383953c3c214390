package domain

import (
	"context"
	"time"
)

// Plan is the persisted snapshot of one planning session: the venues in insertion order
// plus the display order of their place IDs.
// swagger:model Plan
type Plan struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Venues    []Venue   `json:"venues"`
	Order     []string  `json:"order"`
	Revision  int64     `json:"revision"`
	Optimized bool      `json:"optimized"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RouteOptimizer reorders the interior waypoints of a route. The returned slice holds
// indices into waypoints; it may be partial.
type RouteOptimizer interface {
	Optimize(ctx context.Context, origin, destination LatLng, waypoints []LatLng) ([]int, error)
}

// PlanStore persists planning sessions.
type PlanStore interface {
	Get(ctx context.Context, id string) (*Plan, error)
	Put(ctx context.Context, plan *Plan) error
	Delete(ctx context.Context, id string) error
}

// PlanView is a plan as presented to callers: venues in display order.
// swagger:model PlanView
type PlanView struct {
	ID           string  `json:"id"`
	Venues       []Venue `json:"venues"`
	Optimized    bool    `json:"optimized"`
	OrderChanged bool    `json:"order_changed"`
	Revision     int64   `json:"revision"`
}

// PlannerService manages planning sessions for their owners.
type PlannerService interface {
	CreatePlan(ctx context.Context, ownerID string) (*PlanView, error)
	GetPlan(ctx context.Context, planID, ownerID string) (*PlanView, error)
	DeletePlan(ctx context.Context, planID, ownerID string) error
	AddVenue(ctx context.Context, planID, ownerID string, venue Venue) (*PlanView, error)
	RemoveVenue(ctx context.Context, planID, ownerID, placeID string) (*PlanView, error)
	ClearVenues(ctx context.Context, planID, ownerID string) (*PlanView, error)
	// Optimize asks the route optimizer for a better order. Optimizer failure is not an error:
	// the returned view has Optimized=false and insertion order.
	Optimize(ctx context.Context, planID, ownerID string) (*PlanView, error)
	// OrderedVenues returns the plan's venues in display order.
	OrderedVenues(ctx context.Context, planID, ownerID string) ([]Venue, error)
}
