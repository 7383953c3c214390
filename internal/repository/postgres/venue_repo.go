package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"nightout/internal/domain"
)

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{DB: db}
}

// Upsert records a catalog result. Re-running the same search only refreshes the row.
func (r *venueRepository) Upsert(ctx context.Context, p *domain.Place) error {
	query := `
		INSERT INTO venues (place_id, name, address, lat, lng, types, rating, user_ratings_total, url, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (place_id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			types = EXCLUDED.types,
			rating = EXCLUDED.rating,
			user_ratings_total = EXCLUDED.user_ratings_total,
			url = EXCLUDED.url,
			updated_at = EXCLUDED.updated_at
	`
	var rating sql.NullFloat64
	if p.Rating != nil {
		rating = sql.NullFloat64{Float64: *p.Rating, Valid: true}
	}
	var total sql.NullInt64
	if p.UserRatingsTotal != nil {
		total = sql.NullInt64{Int64: int64(*p.UserRatingsTotal), Valid: true}
	}
	types := p.Types
	if types == nil {
		types = []string{}
	}
	_, err := r.DB.ExecContext(ctx, query,
		p.PlaceID, p.Name, p.Address, p.Lat, p.Lng, pq.Array(types), rating, total, p.URL, p.UpdatedAt,
	)
	return err
}

func (r *venueRepository) GetByPlaceID(ctx context.Context, placeID string) (*domain.Place, error) {
	query := `
		SELECT place_id, name, address, lat, lng, types, rating, user_ratings_total, url, updated_at
		FROM venues
		WHERE place_id = $1
	`
	p := &domain.Place{}
	var rating sql.NullFloat64
	var total sql.NullInt64
	err := r.DB.QueryRowContext(ctx, query, placeID).Scan(
		&p.PlaceID, &p.Name, &p.Address, &p.Lat, &p.Lng, pq.Array(&p.Types), &rating, &total, &p.URL, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if rating.Valid {
		v := rating.Float64
		p.Rating = &v
	}
	if total.Valid {
		v := int(total.Int64)
		p.UserRatingsTotal = &v
	}
	return p, nil
}
