package services

import (
	"context"
	"fmt"
	"log"

	"nightout/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendEventInvitation sends the "event_invitation" template to data.Email.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("event invitation data is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render event_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation for %q sent to %s", data.EventTitle, data.Email)
	return nil
}

// SendEventCancellation sends the "event_cancellation" template to data.Email.
func (s *emailService) SendEventCancellation(ctx context.Context, data *domain.EventCancellationEmailData) error {
	if data == nil {
		return fmt.Errorf("event cancellation data is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_cancellation", data)
	if err != nil {
		return fmt.Errorf("failed to render event_cancellation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send cancellation email: %w", err)
	}
	log.Printf("[EMAIL] Cancellation for %q sent to %s", data.EventTitle, data.Email)
	return nil
}
