package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ApplicationDecisionEmailData holds data for the role application decision email.
type ApplicationDecisionEmailData struct {
	Email    string
	Name     string
	RoleCode string
	Approved bool
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendApplicationDecision(ctx context.Context, data *ApplicationDecisionEmailData) error
}
