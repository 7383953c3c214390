package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nightout/internal/domain"
	"nightout/internal/metrics"
	"nightout/internal/planner"
)

type plannerService struct {
	mu             sync.Mutex
	store          domain.PlanStore
	optimizer      domain.RouteOptimizer
	venues         domain.VenueRepository
	metrics        *metrics.Metrics
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewPlannerService returns a PlannerService backed by store. optimizer may be nil, in which
// case Optimize always keeps insertion order. venues, when set, is the catalog AddVenue resolves
// place IDs against.
func NewPlannerService(store domain.PlanStore, optimizer domain.RouteOptimizer, venues domain.VenueRepository, m *metrics.Metrics, logger *slog.Logger, timeout time.Duration) domain.PlannerService {
	if logger == nil {
		logger = slog.Default()
	}
	return &plannerService{
		store:          store,
		optimizer:      optimizer,
		venues:         venues,
		metrics:        m,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *plannerService) CreatePlan(ctx context.Context, ownerID string) (*domain.PlanView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, fmt.Errorf("plan owner is required")
	}
	now := s.now()
	plan := &domain.Plan{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Venues:    []domain.Venue{},
		Order:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return viewOf(plan, planner.Restore(plan.Venues, plan.Order)), nil
}

func (s *plannerService) GetPlan(ctx context.Context, planID, ownerID string) (*domain.PlanView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := s.load(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	return viewOf(plan, planner.Restore(plan.Venues, plan.Order)), nil
}

func (s *plannerService) DeletePlan(ctx context.Context, planID, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(ctx, planID, ownerID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, planID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}

// AddVenue prefers the stored catalog entry for venue.PlaceID over the caller's name, address and
// coordinates. Venues the catalog has never seen are taken as given.
func (s *plannerService) AddVenue(ctx context.Context, planID, ownerID string, venue domain.Venue) (*domain.PlanView, error) {
	venue, err := s.resolveVenue(ctx, venue)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, planID, ownerID, func(r *planner.Route) bool {
		return r.AddVenue(venue)
	})
}

func (s *plannerService) resolveVenue(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	if s.venues == nil {
		return venue, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	place, err := s.venues.GetByPlaceID(ctx, venue.PlaceID)
	switch {
	case err == nil:
		return place.Venue, nil
	case errors.Is(err, domain.ErrNotFound):
		return venue, nil
	default:
		return domain.Venue{}, fmt.Errorf("look up venue: %w", err)
	}
}

func (s *plannerService) RemoveVenue(ctx context.Context, planID, ownerID, placeID string) (*domain.PlanView, error) {
	return s.mutate(ctx, planID, ownerID, func(r *planner.Route) bool {
		return r.RemoveVenue(placeID)
	})
}

func (s *plannerService) ClearVenues(ctx context.Context, planID, ownerID string) (*domain.PlanView, error) {
	return s.mutate(ctx, planID, ownerID, func(r *planner.Route) bool {
		if r.Len() == 0 {
			return false
		}
		r.ClearVenues()
		return true
	})
}

// mutate applies fn to the stored route under the lock. The revision only moves when fn
// reports a change, and any change invalidates a previous optimization.
func (s *plannerService) mutate(ctx context.Context, planID, ownerID string, fn func(*planner.Route) bool) (*domain.PlanView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.load(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	route := planner.Restore(plan.Venues, plan.Order)
	if !fn(route) {
		return viewOf(plan, route), nil
	}
	plan.Venues = route.Venues()
	plan.Order = route.Order()
	plan.Revision++
	plan.Optimized = false
	plan.UpdatedAt = s.now()
	if err := s.store.Put(ctx, plan); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return viewOf(plan, route), nil
}

// Optimize calls the route optimizer outside the lock. If the plan changed while the call was
// in flight the response is dropped and the current plan is returned as is.
func (s *plannerService) Optimize(ctx context.Context, planID, ownerID string) (*domain.PlanView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	plan, err := s.load(ctx, planID, ownerID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	revision := plan.Revision
	venues := planner.Restore(plan.Venues, plan.Order).Venues()

	start := time.Now()
	res := planner.Optimize(ctx, venues, s.optimizer)
	took := time.Since(start)
	if len(venues) >= 2 && s.optimizer != nil {
		switch {
		case res.Err != nil:
			s.metrics.OptimizerCall("error", took)
			s.logger.Warn("route optimization failed, keeping insertion order", "plan_id", planID, "error", res.Err)
		case !res.Optimized:
			s.metrics.OptimizerCall("fallback", took)
			s.logger.Warn("route optimizer returned no usable order", "plan_id", planID)
		default:
			s.metrics.OptimizerCall("optimized", took)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	route := planner.Restore(current.Venues, current.Order)
	if current.Revision != revision {
		s.metrics.OptimizerCall("stale", took)
		s.logger.Info("discarding stale route order", "plan_id", planID, "revision", revision, "current_revision", current.Revision)
		return viewOf(current, route), nil
	}

	route.ApplyOrder(res.Order)
	current.Order = route.Order()
	current.Optimized = res.Optimized
	current.UpdatedAt = s.now()
	if err := s.store.Put(ctx, current); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}
	return viewOf(current, route), nil
}

func (s *plannerService) OrderedVenues(ctx context.Context, planID, ownerID string) ([]domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	plan, err := s.load(ctx, planID, ownerID)
	if err != nil {
		return nil, err
	}
	return planner.Restore(plan.Venues, plan.Order).OrderedVenues(), nil
}

func (s *plannerService) load(ctx context.Context, planID, ownerID string) (*domain.Plan, error) {
	plan, err := s.store.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	if plan.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return plan, nil
}

func viewOf(plan *domain.Plan, route *planner.Route) *domain.PlanView {
	ordered := route.OrderedVenues()
	ids := make([]string, len(ordered))
	for i, v := range ordered {
		ids[i] = v.PlaceID
	}
	if ordered == nil {
		ordered = []domain.Venue{}
	}
	return &domain.PlanView{
		ID:           plan.ID,
		Venues:       ordered,
		Optimized:    plan.Optimized,
		OrderChanged: planner.OrderChanged(route.IDs(), ids),
		Revision:     plan.Revision,
	}
}
