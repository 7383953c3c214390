package postgres

import (
	"context"
	"database/sql"
	"errors"

	"nightout/internal/domain"
)

type preferencesRepository struct {
	DB *sql.DB
}

func NewPreferencesRepository(db *sql.DB) domain.PreferencesRepository {
	return &preferencesRepository{DB: db}
}

func (r *preferencesRepository) Get(ctx context.Context, userID string) (*domain.Preferences, error) {
	query := `
		SELECT party_size, vibe_type, price_range, music_preference, venue_type, updated_at
		FROM user_preferences
		WHERE user_id = $1
	`
	p := &domain.Preferences{}
	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&p.PartySize, &p.VibeType, &p.PriceRange, &p.MusicPreference, &p.VenueType, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *preferencesRepository) Upsert(ctx context.Context, userID string, p *domain.Preferences) error {
	query := `
		INSERT INTO user_preferences (user_id, party_size, vibe_type, price_range, music_preference, venue_type, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			party_size = EXCLUDED.party_size,
			vibe_type = EXCLUDED.vibe_type,
			price_range = EXCLUDED.price_range,
			music_preference = EXCLUDED.music_preference,
			venue_type = EXCLUDED.venue_type,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query, userID, p.PartySize, p.VibeType, p.PriceRange, p.MusicPreference, p.VenueType, p.UpdatedAt)
	return err
}
