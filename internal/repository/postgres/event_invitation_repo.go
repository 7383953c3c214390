package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nightout/internal/domain"
)

type eventInvitationRepository struct {
	DB *sql.DB
}

func NewEventInvitationRepository(db *sql.DB) domain.EventInvitationRepository {
	return &eventInvitationRepository{
		DB: db,
	}
}

// CreateBatch inserts all emails as pending invitations in one transaction.
func (r *eventInvitationRepository) CreateBatch(ctx context.Context, eventID string, emails []string, sentAt time.Time) (err error) {
	if len(emails) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO event_invitations (event_id, email, status, sent_at)
		VALUES ($1, $2, $3, $4)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, email := range emails {
		if _, err = stmt.ExecContext(ctx, eventID, email, domain.InvitationPending, sentAt); err != nil {
			return fmt.Errorf("insert %s: %w", email, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *eventInvitationRepository) ListEmailsByEventID(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT email FROM event_invitations WHERE event_id = $1 ORDER BY sent_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return emails, nil
}

// ListByEventID returns one page of invitations, newest first, optionally filtered by a
// case-insensitive substring of the email, together with the total match count.
func (r *eventInvitationRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.EventInvitation, int, error) {
	where := `WHERE event_id = $1 AND ($2 = '' OR email ILIKE '%' || $2 || '%')`

	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_invitations `+where, eventID, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, email, status, sent_at
		FROM event_invitations
		` + where + `
		ORDER BY sent_at DESC, email ASC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invs := make([]*domain.EventInvitation, 0)
	for rows.Next() {
		inv := &domain.EventInvitation{}
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.Email, &inv.Status, &inv.SentAt); err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *eventInvitationRepository) DeleteByEventID(ctx context.Context, eventID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM event_invitations WHERE event_id = $1`, eventID)
	return err
}
