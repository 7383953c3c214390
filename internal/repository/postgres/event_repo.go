package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nightout/internal/domain"
)

const eventColumns = `id, title, date, location, description, host_id, max_participants,
	current_participants, invite_code, invite_link, link_expiry, created_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Location, &e.Description, &e.HostID, &e.MaxParticipants,
		&e.CurrentParticipants, &e.InviteCode, &e.InviteLink, &e.LinkExpiry, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, location, description, host_id, max_participants,
			current_participants, invite_code, invite_link, link_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Date, e.Location, e.Description, e.HostID, e.MaxParticipants,
		e.CurrentParticipants, e.InviteCode, e.InviteLink, e.LinkExpiry, e.CreatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetByInviteCode(ctx context.Context, code string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE invite_code = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE host_id = $1 ORDER BY date ASC`
	rows, err := r.DB.QueryContext(ctx, query, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AcceptJoin seats a guest and records their accepted invitation in one transaction. The event
// row is locked first so concurrent joins for the same event are serialized.
func (r *eventRepository) AcceptJoin(ctx context.Context, eventID, email string, joinedAt time.Time) (e *domain.Event, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var current, capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT current_participants, max_participants FROM events WHERE id = $1 FOR UPDATE`, eventID,
	).Scan(&current, &capacity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock event: %w", err)
	}

	var invID, status string
	err = tx.QueryRowContext(ctx, `
		SELECT id, status FROM event_invitations
		WHERE event_id = $1 AND lower(email) = lower($2)
		FOR UPDATE
	`, eventID, email).Scan(&invID, &status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		invID, err = "", nil
	case err != nil:
		return nil, fmt.Errorf("get invitation: %w", err)
	case status == domain.InvitationAccepted:
		return nil, domain.ErrAlreadyJoined
	}
	if current >= capacity {
		return nil, domain.ErrEventFull
	}

	if invID != "" {
		_, err = tx.ExecContext(ctx, `UPDATE event_invitations SET status = $1 WHERE id = $2`,
			domain.InvitationAccepted, invID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO event_invitations (event_id, email, status, sent_at)
			VALUES ($1, $2, $3, $4)
		`, eventID, email, domain.InvitationAccepted, joinedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("accept invitation: %w", err)
	}

	e, err = scanEvent(tx.QueryRowContext(ctx, `
		UPDATE events
		SET current_participants = current_participants + 1
		WHERE id = $1
		RETURNING `+eventColumns, eventID))
	if err != nil {
		return nil, fmt.Errorf("increment participants: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}
