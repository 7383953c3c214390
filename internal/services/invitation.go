package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"nightout/internal/domain"
	"nightout/internal/metrics"
)

const defaultHostName = "A friend"

type invitationService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.EventInvitationRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	metrics        *metrics.Metrics
	concurrency    int
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInvitationService returns an InvitationService. concurrency bounds the number of emails
// in flight for one batch.
func NewInvitationService(
	eventRepo domain.EventRepository,
	invitationRepo domain.EventInvitationRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	m *metrics.Metrics,
	concurrency int,
	timeout time.Duration,
) domain.InvitationService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &invitationService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		metrics:        m,
		concurrency:    concurrency,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *invitationService) SendInvitations(ctx context.Context, eventID, hostID string, emails []string) (*domain.InviteResult, error) {
	if len(uniqueEmails(emails).kept) == 0 {
		return nil, domain.ErrNoValidEmails
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

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
	if err := event.CheckInvitable(s.now()); err != nil {
		return nil, err
	}

	existing, err := s.invitationRepo.ListEmailsByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	classes, ok := ClassifyInvites(emails, existing)
	if !ok {
		return nil, domain.ErrNoValidEmails
	}

	result := &domain.InviteResult{
		Sent:                []string{},
		Failed:              []string{},
		DuplicatesInRequest: classes.DuplicatesInRequest,
		AlreadyInvited:      classes.AlreadyInvited,
	}
	if len(classes.NewEmails) > 0 {
		if err := s.invitationRepo.CreateBatch(ctx, eventID, classes.NewEmails, s.now()); err != nil {
			return nil, fmt.Errorf("create invitations: %w", err)
		}
		data := domain.EventInvitationEmailData{
			HostName:   hostDisplayName(ctx, s.userRepo, hostID),
			EventTitle: event.Title,
			InviteLink: event.InviteLink,
		}
		result.Sent, result.Failed = s.dispatch(ctx, classes.NewEmails, data)
	}

	switch {
	case len(result.Failed) > 0:
		result.Outcome = domain.InviteOutcomePartial
	case classes.Skipped():
		result.Outcome = domain.InviteOutcomeSkipped
	default:
		result.Outcome = domain.InviteOutcomeSent
	}

	s.metrics.InviteEmails("sent", len(result.Sent))
	s.metrics.InviteEmails("failed", len(result.Failed))
	s.metrics.InviteEmails("duplicate", len(result.DuplicatesInRequest))
	s.metrics.InviteEmails("already_invited", len(result.AlreadyInvited))
	s.metrics.InviteBatch(string(result.Outcome))
	return result, nil
}

// dispatch sends one invitation per address. Sends are independent: a failure is recorded
// against its address and never stops the others.
func (s *invitationService) dispatch(ctx context.Context, to []string, tmpl domain.EventInvitationEmailData) (sent, failed []string) {
	errs := make([]error, len(to))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, addr := range to {
		g.Go(func() error {
			data := tmpl
			data.Email = addr
			errs[i] = s.emailService.SendEventInvitation(ctx, &data)
			return nil
		})
	}
	_ = g.Wait()

	sent, failed = []string{}, []string{}
	for i, addr := range to {
		if errs[i] != nil {
			failed = append(failed, addr)
			continue
		}
		sent = append(sent, addr)
	}
	return sent, failed
}
