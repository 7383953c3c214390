package planner

import (
	"context"

	"nightout/internal/domain"
)

// Reconciliation is the outcome of asking the optimizer for a better order.
type Reconciliation struct {
	// Order is the reconciled display order. It always contains every venue exactly once.
	Order []string
	// Optimized is false when the optimizer was not called, failed, or returned nothing usable.
	Optimized bool
	// Err is the optimizer error, if any. It is informational; Order is still valid.
	Err error
}

// Optimize computes a display order for venues using opt. With fewer than two venues the
// optimizer is not called. Any optimizer failure falls back to insertion order.
func Optimize(ctx context.Context, venues []domain.Venue, opt domain.RouteOptimizer) Reconciliation {
	ids := make([]string, len(venues))
	for i, v := range venues {
		ids[i] = v.PlaceID
	}
	if len(venues) < 2 || opt == nil {
		return Reconciliation{Order: ids}
	}

	interior := venues[1 : len(venues)-1]
	waypoints := make([]domain.LatLng, len(interior))
	for i, v := range interior {
		waypoints[i] = v.Location()
	}

	indices, err := opt.Optimize(ctx, venues[0].Location(), venues[len(venues)-1].Location(), waypoints)
	if err != nil {
		return Reconciliation{Order: ids, Err: err}
	}
	if len(interior) > 0 && countValid(indices, len(interior)) == 0 {
		return Reconciliation{Order: ids}
	}
	return Reconciliation{Order: Reconcile(ids, indices), Optimized: true}
}

// Reconcile merges an optimizer's waypoint order into ids, which must be in insertion order.
// The first and last ids stay fixed. Interior ids follow waypointOrder (indices into the
// interior slice); out-of-range and repeated indices are ignored, first occurrence wins.
// Interior ids the optimizer left out are appended after the last id, in insertion order.
func Reconcile(ids []string, waypointOrder []int) []string {
	if len(ids) < 2 {
		return append([]string(nil), ids...)
	}
	interior := ids[1 : len(ids)-1]
	out := make([]string, 0, len(ids))
	out = append(out, ids[0])

	used := make([]bool, len(interior))
	for _, idx := range waypointOrder {
		if idx < 0 || idx >= len(interior) || used[idx] {
			continue
		}
		used[idx] = true
		out = append(out, interior[idx])
	}
	out = append(out, ids[len(ids)-1])
	for i, id := range interior {
		if !used[i] {
			out = append(out, id)
		}
	}
	return out
}

// OrderChanged reports whether reconciled differs from insertion order. It is only a UI hint:
// true iff there are at least two venues, the lengths match, and some position differs.
func OrderChanged(insertion, reconciled []string) bool {
	if len(insertion) < 2 || len(insertion) != len(reconciled) {
		return false
	}
	for i := range insertion {
		if insertion[i] != reconciled[i] {
			return true
		}
	}
	return false
}

func countValid(indices []int, n int) int {
	c := 0
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			c++
		}
	}
	return c
}
