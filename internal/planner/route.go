// Package planner holds the route a user is building for one night out: the set of chosen
// venues, their display order, and the rules for merging an optimizer's suggested order.
package planner

import "nightout/internal/domain"

// Route is the ordered, deduplicated set of venues for one outing.
// Venues are kept in insertion order; order is the display order of their place IDs and is
// tracked separately so optimizer results can be applied without losing venues.
// A Route has a single owner and is not safe for concurrent use.
type Route struct {
	venues []domain.Venue
	byID   map[string]int
	order  []string
}

// New returns an empty route.
func New() *Route {
	return &Route{byID: make(map[string]int)}
}

// Restore rebuilds a route from a stored snapshot. Venues with an empty or repeated place ID
// are dropped. The order is kept as given even if it no longer matches the venues;
// OrderedVenues falls back to insertion order in that case.
func Restore(venues []domain.Venue, order []string) *Route {
	r := New()
	for _, v := range venues {
		if v.PlaceID == "" || r.HasVenue(v.PlaceID) {
			continue
		}
		r.byID[v.PlaceID] = len(r.venues)
		r.venues = append(r.venues, v)
	}
	r.order = append([]string(nil), order...)
	return r
}

// AddVenue appends v to the route. It is a no-op, returning false, when the place ID is empty
// or already present.
func (r *Route) AddVenue(v domain.Venue) bool {
	if v.PlaceID == "" || r.HasVenue(v.PlaceID) {
		return false
	}
	r.byID[v.PlaceID] = len(r.venues)
	r.venues = append(r.venues, v)
	r.order = append(r.order, v.PlaceID)
	return true
}

// RemoveVenue drops the venue from both the collection and the display order.
// Returns false when the venue was not in the route.
func (r *Route) RemoveVenue(placeID string) bool {
	idx, ok := r.byID[placeID]
	if !ok {
		return false
	}
	r.venues = append(r.venues[:idx], r.venues[idx+1:]...)
	delete(r.byID, placeID)
	for i := idx; i < len(r.venues); i++ {
		r.byID[r.venues[i].PlaceID] = i
	}
	order := r.order[:0]
	for _, id := range r.order {
		if id != placeID {
			order = append(order, id)
		}
	}
	r.order = order
	return true
}

// ClearVenues empties the route.
func (r *Route) ClearVenues() {
	r.venues = nil
	r.order = nil
	r.byID = make(map[string]int)
}

// HasVenue reports whether a venue with placeID is in the route.
func (r *Route) HasVenue(placeID string) bool {
	_, ok := r.byID[placeID]
	return ok
}

// Len returns the number of venues.
func (r *Route) Len() int {
	return len(r.venues)
}

// Venues returns a copy of the venues in insertion order.
func (r *Route) Venues() []domain.Venue {
	return append([]domain.Venue(nil), r.venues...)
}

// IDs returns the place IDs in insertion order.
func (r *Route) IDs() []string {
	ids := make([]string, len(r.venues))
	for i, v := range r.venues {
		ids[i] = v.PlaceID
	}
	return ids
}

// Order returns a copy of the display order.
func (r *Route) Order() []string {
	return append([]string(nil), r.order...)
}

// ApplyOrder installs ids as the display order. Consistency is checked lazily by OrderedVenues.
func (r *Route) ApplyOrder(ids []string) {
	r.order = append([]string(nil), ids...)
}

// OrderedVenues returns the venues in display order. If the display order does not cover
// exactly the current venues it returns insertion order instead; it never fails.
func (r *Route) OrderedVenues() []domain.Venue {
	if !r.orderConsistent() {
		return r.Venues()
	}
	out := make([]domain.Venue, len(r.order))
	for i, id := range r.order {
		out[i] = r.venues[r.byID[id]]
	}
	return out
}

func (r *Route) orderConsistent() bool {
	if len(r.order) != len(r.venues) {
		return false
	}
	seen := make(map[string]struct{}, len(r.order))
	for _, id := range r.order {
		if _, ok := r.byID[id]; !ok {
			return false
		}
		if _, dup := seen[id]; dup {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}
