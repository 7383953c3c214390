package domain

import (
	"context"
	"time"
)

// Invitation statuses.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationDeclined = "declined"
)

// EventInvitation represents an email invited to an event.
// swagger:model EventInvitation
type EventInvitation struct {
	ID      string    `json:"id"`
	EventID string    `json:"event_id"`
	Email   string    `json:"email"`
	Status  string    `json:"status"`
	SentAt  time.Time `json:"sent_at"`
}

// EventInvitationRepository defines storage operations for event invitations.
type EventInvitationRepository interface {
	// CreateBatch inserts one pending invitation per email in a single transaction.
	CreateBatch(ctx context.Context, eventID string, emails []string, sentAt time.Time) error
	// ListEmailsByEventID returns every invited email for the event as stored.
	ListEmailsByEventID(ctx context.Context, eventID string) ([]string, error)
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*EventInvitation, int, error)
	DeleteByEventID(ctx context.Context, eventID string) error
}

// InviteClassification partitions a deduplicated batch. Emails keep their first-seen casing.
type InviteClassification struct {
	NewEmails           []string `json:"new_emails"`
	DuplicatesInRequest []string `json:"duplicates_in_request"`
	AlreadyInvited      []string `json:"already_invited"`
}

// Skipped reports whether any input was left out of dispatch.
func (c InviteClassification) Skipped() bool {
	return len(c.DuplicatesInRequest) > 0 || len(c.AlreadyInvited) > 0
}

// InviteOutcome summarizes how a send went.
type InviteOutcome string

const (
	// InviteOutcomeSent means every new email was sent and nothing was skipped.
	InviteOutcomeSent InviteOutcome = "sent"
	// InviteOutcomePartial means at least one new email failed to send.
	InviteOutcomePartial InviteOutcome = "partial"
	// InviteOutcomeSkipped means nothing failed but some inputs were duplicates or already invited.
	InviteOutcomeSkipped InviteOutcome = "skipped"
)

// InviteResult is the report for one send action.
// swagger:model InviteResult
type InviteResult struct {
	Outcome             InviteOutcome `json:"outcome"`
	Sent                []string      `json:"sent"`
	Failed              []string      `json:"failed"`
	DuplicatesInRequest []string      `json:"duplicates_in_request"`
	AlreadyInvited      []string      `json:"already_invited"`
}

// InvitationService sends invitations for an event.
type InvitationService interface {
	// SendInvitations rejects the batch with ErrNotFound, ErrForbidden, ErrEventFull, ErrInviteExpired
	// or ErrNoValidEmails before touching the invite store.
	SendInvitations(ctx context.Context, eventID, hostID string, emails []string) (*InviteResult, error)
}
