package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"nightout/internal/domain"
	"nightout/internal/metrics"
)

const (
	inviteCodeLength  = 12
	locationSeparator = " → "
)

var inviteCodeAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

type eventService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.EventInvitationRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	planner        domain.PlannerService
	metrics        *metrics.Metrics
	publicBaseURL  string
	concurrency    int
	contextTimeout time.Duration
	now            func() time.Time
}

// EventServiceConfig carries the non-port settings of the event service.
type EventServiceConfig struct {
	PublicBaseURL  string
	Concurrency    int
	ContextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	invitationRepo domain.EventInvitationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	planner domain.PlannerService,
	m *metrics.Metrics,
	cfg EventServiceConfig,
) domain.EventService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &eventService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		planner:        planner,
		metrics:        m,
		publicBaseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		concurrency:    cfg.Concurrency,
		contextTimeout: cfg.ContextTimeout,
		now:            time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, hostID string, input domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if hostID == "" {
		return nil, fmt.Errorf("event host is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if input.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if input.MaxParticipants < 1 {
		return nil, fmt.Errorf("%w: max_participants must be at least 1", domain.ErrInvalidInput)
	}
	if input.LinkExpiry.IsZero() {
		return nil, fmt.Errorf("%w: link_expiry is required", domain.ErrInvalidInput)
	}

	location := strings.TrimSpace(input.Location)
	if location == "" && input.PlanID != "" {
		venues, err := s.planner.OrderedVenues(ctx, input.PlanID, hostID)
		if err != nil {
			return nil, fmt.Errorf("load plan: %w", err)
		}
		location = routeSummary(venues)
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("generate invite code: %w", err)
	}

	event := &domain.Event{
		Title:               title,
		Date:                input.Date,
		Location:            location,
		Description:         strings.TrimSpace(input.Description),
		HostID:              hostID,
		MaxParticipants:     input.MaxParticipants,
		CurrentParticipants: 1,
		InviteCode:          code,
		InviteLink:          s.publicBaseURL + "/events/join/" + code,
		LinkExpiry:          input.LinkExpiry,
		CreatedAt:           s.now(),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// routeSummary joins venue names in route order, e.g. "Bar A → Bar B".
func routeSummary(venues []domain.Venue) string {
	names := make([]string, 0, len(venues))
	for _, v := range venues {
		if v.Name != "" {
			names = append(names, v.Name)
		}
	}
	return strings.Join(names, locationSeparator)
}

func generateInviteCode() (string, error) {
	b := make([]rune, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != userID {
		return event.WithoutInvite(), nil
	}
	return event, nil
}

func (s *eventService) ListMyEvents(ctx context.Context, hostID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.ListByHostID(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// CancelEvent tells every invitee the event is off, then deletes the invitations and the event.
// Notification failures are reported but do not stop the cancellation.
func (s *eventService) CancelEvent(ctx context.Context, eventID, hostID string) (*domain.CancelEventResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.ownedEvent(ctx, eventID, hostID)
	if err != nil {
		return nil, err
	}

	emails, err := s.invitationRepo.ListEmailsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	recipients := uniqueEmails(emails).kept

	date := event.Date
	data := domain.EventCancellationEmailData{
		HostName:   hostDisplayName(ctx, s.userRepo, hostID),
		EventTitle: event.Title,
		Date:       &date,
	}
	errs := make([]error, len(recipients))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, addr := range recipients {
		g.Go(func() error {
			d := data
			d.Email = addr
			errs[i] = s.emailService.SendEventCancellation(ctx, &d)
			return nil
		})
	}
	_ = g.Wait()

	result := &domain.CancelEventResult{Failed: []string{}}
	for i, addr := range recipients {
		if errs[i] != nil {
			result.Failed = append(result.Failed, addr)
			continue
		}
		result.Notified++
	}
	s.metrics.CancellationNotices("sent", result.Notified)
	s.metrics.CancellationNotices("failed", len(result.Failed))

	if err := s.invitationRepo.DeleteByEventID(ctx, eventID); err != nil {
		return nil, fmt.Errorf("delete invitations: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return result, nil
}

// JoinEvent accepts an invite link on behalf of userID. An existing pending invitation for the
// user's email is marked accepted; otherwise an accepted invitation is recorded.
func (s *eventService) JoinEvent(ctx context.Context, inviteCode, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	code := strings.ToLower(strings.TrimSpace(inviteCode))
	if code == "" {
		return nil, domain.ErrNotFound
	}
	event, err := s.eventRepo.GetByInviteCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID == userID {
		return nil, domain.ErrAlreadyJoined
	}
	if err := event.CheckInvitable(s.now()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	updated, err := s.eventRepo.AcceptJoin(ctx, event.ID, user.Email, s.now())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventFull), errors.Is(err, domain.ErrAlreadyJoined), errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
		return nil, fmt.Errorf("join event: %w", err)
	}
	return updated, nil
}

func (s *eventService) ListEventInvitations(ctx context.Context, eventID, hostID, search string, params domain.PaginationParams) ([]*domain.EventInvitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedEvent(ctx, eventID, hostID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.invitationRepo.ListByEventID(ctx, eventID, strings.TrimSpace(search), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if list == nil {
		list = []*domain.EventInvitation{}
	}
	return list, total, nil
}

func (s *eventService) ownedEvent(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func hostDisplayName(ctx context.Context, users domain.UserRepository, hostID string) string {
	if users == nil {
		return defaultHostName
	}
	host, err := users.GetByID(ctx, hostID)
	if err != nil || host == nil {
		return defaultHostName
	}
	return host.DisplayName()
}
