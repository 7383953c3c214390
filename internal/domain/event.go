package domain

import (
	"context"
	"time"
)

// Event is a hosted night out that people can be invited to.
// swagger:model Event
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	Location            string    `json:"location"`
	Description         string    `json:"description"`
	HostID              string    `json:"host_id"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	InviteCode          string    `json:"invite_code,omitempty"`
	InviteLink          string    `json:"invite_link,omitempty"`
	LinkExpiry          time.Time `json:"link_expiry"`
	CreatedAt           time.Time `json:"created_at"`
}

// WithoutInvite returns a copy with the invite code and link cleared, for callers other than the host.
func (e *Event) WithoutInvite() *Event {
	c := *e
	c.InviteCode = ""
	c.InviteLink = ""
	return &c
}

// IsFull reports whether no more participants can join.
func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

// LinkExpired reports whether the invite link is no longer valid at now.
func (e *Event) LinkExpired(now time.Time) bool {
	return !now.Before(e.LinkExpiry)
}

// CheckInvitable returns ErrEventFull or ErrInviteExpired when the event cannot take more people.
func (e *Event) CheckInvitable(now time.Time) error {
	if e.IsFull() {
		return ErrEventFull
	}
	if e.LinkExpired(now) {
		return ErrInviteExpired
	}
	return nil
}

// CreateEventInput carries the host-supplied fields for a new event.
// PlanID is optional; when Location is empty the location text is derived from that plan.
type CreateEventInput struct {
	Title           string
	Date            time.Time
	Location        string
	Description     string
	MaxParticipants int
	LinkExpiry      time.Time
	PlanID          string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByInviteCode(ctx context.Context, code string) (*Event, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	Delete(ctx context.Context, id string) error
	// AcceptJoin atomically takes a seat and marks the email's invitation accepted, creating it
	// when absent. Returns ErrEventFull, ErrAlreadyJoined or ErrNotFound without writing anything.
	AcceptJoin(ctx context.Context, eventID, email string, joinedAt time.Time) (*Event, error)
}

// CancelEventResult reports who could not be told about a cancellation.
type CancelEventResult struct {
	Notified int      `json:"notified"`
	Failed   []string `json:"failed"`
}

// EventService defines event hosting operations.
type EventService interface {
	CreateEvent(ctx context.Context, hostID string, input CreateEventInput) (*Event, error)
	// GetEvent hides the invite code and link unless userID is the host.
	GetEvent(ctx context.Context, eventID, userID string) (*Event, error)
	ListMyEvents(ctx context.Context, hostID string) ([]*Event, error)
	CancelEvent(ctx context.Context, eventID, hostID string) (*CancelEventResult, error)
	JoinEvent(ctx context.Context, inviteCode, userID string) (*Event, error)
	ListEventInvitations(ctx context.Context, eventID, hostID, search string, params PaginationParams) ([]*EventInvitation, int, error)
}
