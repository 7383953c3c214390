package domain

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Party sizes.
const (
	PartySolo       = "solo"
	PartyCouple     = "couple"
	PartySmallGroup = "small-group"
	PartyLargeGroup = "large-group"
)

// Vibes.
const (
	VibeChill    = "chill"
	VibeModerate = "moderate"
	VibeLively   = "lively"
	VibeParty    = "party"
)

// Price ranges, per person.
const (
	PriceBudget   = "budget"
	PriceModerate = "moderate"
	PriceHighEnd  = "high-end"
	PriceLuxury   = "luxury"
)

// Music preferences.
const (
	MusicLive       = "live-music"
	MusicDJ         = "dj"
	MusicBackground = "background-music"
	MusicQuiet      = "quiet"
)

// Venue kinds.
const (
	VenueKindFoodAndDrink  = "food-and-drink"
	VenueKindEntertainment = "entertainment"
	VenueKindSport         = "sport"
)

var preferenceChoices = map[string][]string{
	"party_size":       {PartySolo, PartyCouple, PartySmallGroup, PartyLargeGroup},
	"vibe_type":        {VibeChill, VibeModerate, VibeLively, VibeParty},
	"price_range":      {PriceBudget, PriceModerate, PriceHighEnd, PriceLuxury},
	"music_preference": {MusicLive, MusicDJ, MusicBackground, MusicQuiet},
	"venue_type":       {VenueKindFoodAndDrink, VenueKindEntertainment, VenueKindSport},
}

// Preferences describes the kind of night out a user is after.
// swagger:model Preferences
type Preferences struct {
	PartySize       string    `json:"party_size"`
	VibeType        string    `json:"vibe_type"`
	PriceRange      string    `json:"price_range"`
	MusicPreference string    `json:"music_preference"`
	VenueType       string    `json:"venue_type"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// DefaultPreferences is what a user gets before saving anything.
func DefaultPreferences() Preferences {
	return Preferences{
		PartySize:       PartyCouple,
		VibeType:        VibeModerate,
		PriceRange:      PriceModerate,
		MusicPreference: MusicBackground,
		VenueType:       VenueKindFoodAndDrink,
	}
}

// Normalize lowercases and trims every field. The old "entretainment" spelling maps to entertainment.
func (p *Preferences) Normalize() {
	for _, f := range []*string{&p.PartySize, &p.VibeType, &p.PriceRange, &p.MusicPreference, &p.VenueType} {
		*f = strings.ToLower(strings.TrimSpace(*f))
	}
	if p.VenueType == "entretainment" {
		p.VenueType = VenueKindEntertainment
	}
}

// Merge copies every non-empty field of update over p.
func (p *Preferences) Merge(update Preferences) {
	if update.PartySize != "" {
		p.PartySize = update.PartySize
	}
	if update.VibeType != "" {
		p.VibeType = update.VibeType
	}
	if update.PriceRange != "" {
		p.PriceRange = update.PriceRange
	}
	if update.MusicPreference != "" {
		p.MusicPreference = update.MusicPreference
	}
	if update.VenueType != "" {
		p.VenueType = update.VenueType
	}
}

// Validate returns an ErrInvalidInput error naming the first field outside its allowed values.
func (p Preferences) Validate() error {
	fields := []struct {
		name, value string
	}{
		{"party_size", p.PartySize},
		{"vibe_type", p.VibeType},
		{"price_range", p.PriceRange},
		{"music_preference", p.MusicPreference},
		{"venue_type", p.VenueType},
	}
	for _, f := range fields {
		if !slices.Contains(preferenceChoices[f.name], f.value) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidInput, f.name, strings.Join(preferenceChoices[f.name], ", "))
		}
	}
	return nil
}

// PreferencesRepository stores one preferences row per user.
type PreferencesRepository interface {
	// Get returns ErrNotFound when the user never saved preferences.
	Get(ctx context.Context, userID string) (*Preferences, error)
	Upsert(ctx context.Context, userID string, prefs *Preferences) error
}
