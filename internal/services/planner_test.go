package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"nightout/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(opt domain.RouteOptimizer) (domain.PlannerService, *fakePlanStore) {
	store := newFakePlanStore()
	return NewPlannerService(store, opt, nil, nil, nil, 5*time.Second), store
}

func stop(id string, lat float64) domain.Venue {
	return domain.Venue{PlaceID: id, Name: "Bar " + id, Lat: lat, Lng: lat}
}

func viewIDs(v *domain.PlanView) []string {
	ids := make([]string, len(v.Venues))
	for i, venue := range v.Venues {
		ids[i] = venue.PlaceID
	}
	return ids
}

func planWith(t *testing.T, svc domain.PlannerService, owner string, ids ...string) *domain.PlanView {
	t.Helper()
	ctx := context.Background()
	view, err := svc.CreatePlan(ctx, owner)
	require.NoError(t, err)
	for i, id := range ids {
		view, err = svc.AddVenue(ctx, view.ID, owner, stop(id, float64(i)))
		require.NoError(t, err)
	}
	return view
}

func TestPlanner_AddRemoveClear(t *testing.T) {
	svc, _ := newTestPlanner(nil)
	ctx := context.Background()

	view := planWith(t, svc, "u1", "A", "B", "C")
	assert.Equal(t, []string{"A", "B", "C"}, viewIDs(view))
	assert.Equal(t, int64(3), view.Revision)

	view, err := svc.AddVenue(ctx, view.ID, "u1", stop("B", 9))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, viewIDs(view))
	assert.Equal(t, int64(3), view.Revision, "duplicate add is not a mutation")

	view, err = svc.RemoveVenue(ctx, view.ID, "u1", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, viewIDs(view))

	view, err = svc.RemoveVenue(ctx, view.ID, "u1", "missing")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, viewIDs(view))

	view, err = svc.ClearVenues(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, view.Venues)

	got, err := svc.GetPlan(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Empty(t, got.Venues)
	assert.NotNil(t, got.Venues)
}

func TestPlanner_Ownership(t *testing.T) {
	svc, _ := newTestPlanner(nil)
	ctx := context.Background()
	view := planWith(t, svc, "u1", "A")

	_, err := svc.GetPlan(ctx, view.ID, "u2")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = svc.AddVenue(ctx, view.ID, "u2", stop("B", 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.DeletePlan(ctx, view.ID, "u2"), domain.ErrForbidden)

	_, err = svc.GetPlan(ctx, "nope", "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.DeletePlan(ctx, view.ID, "u1"))
	_, err = svc.GetPlan(ctx, view.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanner_Optimize(t *testing.T) {
	opt := &fakeOptimizer{order: []int{1, 0}}
	svc, _ := newTestPlanner(opt)
	ctx := context.Background()
	view := planWith(t, svc, "u1", "A", "B", "C", "D")

	view, err := svc.Optimize(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D"}, viewIDs(view))
	assert.True(t, view.Optimized)
	assert.True(t, view.OrderChanged)
	assert.Equal(t, 1, opt.calls)

	ordered, err := svc.OrderedVenues(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bar C", ordered[1].Name)

	// a new stop goes to the end of the display order and clears the optimized flag
	view, err = svc.AddVenue(ctx, view.ID, "u1", stop("E", 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D", "E"}, viewIDs(view))
	assert.False(t, view.Optimized)
}

func TestPlanner_OptimizeKeepsOmittedWaypoint(t *testing.T) {
	svc, _ := newTestPlanner(&fakeOptimizer{order: []int{0}})
	view := planWith(t, svc, "u1", "A", "B", "C", "D")

	view, err := svc.Optimize(context.Background(), view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "D", "C"}, viewIDs(view))
}

func TestPlanner_OptimizeFailure(t *testing.T) {
	svc, _ := newTestPlanner(&fakeOptimizer{err: errors.New("quota exceeded")})
	view := planWith(t, svc, "u1", "A", "B", "C")

	view, err := svc.Optimize(context.Background(), view.ID, "u1")
	require.NoError(t, err, "optimizer failure is not fatal")
	assert.Equal(t, []string{"A", "B", "C"}, viewIDs(view))
	assert.False(t, view.Optimized)
	assert.False(t, view.OrderChanged)
}

func TestPlanner_OptimizeSkipsShortRoutes(t *testing.T) {
	opt := &fakeOptimizer{order: []int{0}}
	svc, _ := newTestPlanner(opt)

	for _, ids := range [][]string{{}, {"A"}} {
		view := planWith(t, svc, "u1", ids...)
		view, err := svc.Optimize(context.Background(), view.ID, "u1")
		require.NoError(t, err)
		assert.Equal(t, ids, viewIDs(view))
	}
	assert.Equal(t, 0, opt.calls)
}

func TestPlanner_OptimizeDiscardsStaleResponse(t *testing.T) {
	opt := &fakeOptimizer{order: []int{1, 0}}
	svc, store := newTestPlanner(opt)
	ctx := context.Background()
	view := planWith(t, svc, "u1", "A", "B", "C", "D")
	planID := view.ID

	opt.hook = func() {
		_, err := svc.AddVenue(ctx, planID, "u1", stop("E", 9))
		require.NoError(t, err)
	}

	view, err := svc.Optimize(ctx, planID, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, viewIDs(view))
	assert.False(t, view.Optimized)

	stored, err := store.Get(ctx, planID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, stored.Order)
	assert.Equal(t, int64(5), stored.Revision)
}

func TestPlanner_AddVenueResolvesFromCatalog(t *testing.T) {
	venues := &fakeVenueRepo{byID: map[string]*domain.Place{
		"A": {Venue: domain.Venue{PlaceID: "A", Name: "The Anchor", Address: "1 Quay St", Lat: 51.5, Lng: -0.1}},
	}}
	store := newFakePlanStore()
	svc := NewPlannerService(store, nil, venues, nil, nil, 5*time.Second)
	ctx := context.Background()

	view, err := svc.CreatePlan(ctx, "u1")
	require.NoError(t, err)

	view, err = svc.AddVenue(ctx, view.ID, "u1", domain.Venue{PlaceID: "A", Name: "spoofed", Lat: 10, Lng: 10})
	require.NoError(t, err)
	require.Len(t, view.Venues, 1)
	assert.Equal(t, "The Anchor", view.Venues[0].Name)
	assert.Equal(t, "1 Quay St", view.Venues[0].Address)
	assert.Equal(t, 51.5, view.Venues[0].Lat)

	view, err = svc.AddVenue(ctx, view.ID, "u1", stop("B", 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, viewIDs(view))
	assert.Equal(t, "Bar B", view.Venues[1].Name, "unknown place taken as given")

	venues.getErr = errors.New("db down")
	_, err = svc.AddVenue(ctx, view.ID, "u1", stop("C", 3))
	require.ErrorContains(t, err, "look up venue")
	got, err := svc.GetPlan(ctx, view.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Revision)
}
