package services

import (
	"context"
	"fmt"

	"conventionlist/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendApplicationDecision sends the approval or rejection email for a role
// application using the "application_decision" template.
func (s *emailService) SendApplicationDecision(ctx context.Context, data *domain.ApplicationDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("application decision data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("application_decision", data)
	if err != nil {
		return fmt.Errorf("failed to render application_decision template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send application decision email: %w", err)
	}
	return nil
}
