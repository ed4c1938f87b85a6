package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conventionlist/internal/domain"
)

func TestTemplateRendererApplicationDecision(t *testing.T) {
	renderer := NewTemplateRenderer()

	t.Run("approved", func(t *testing.T) {
		subject, htmlBody, textBody, err := renderer.Render("application_decision", &domain.ApplicationDecisionEmailData{
			Email:    "alice@example.com",
			Name:     "Alice",
			RoleCode: domain.RoleOrganizer,
			Approved: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Your ORGANIZER application was approved", subject)
		assert.Contains(t, htmlBody, "Hi Alice,")
		assert.Contains(t, htmlBody, "has been approved")
		assert.Contains(t, textBody, "has been approved")
	})

	t.Run("rejected", func(t *testing.T) {
		subject, htmlBody, textBody, err := renderer.Render("application_decision", &domain.ApplicationDecisionEmailData{
			Email:    "bob@example.com",
			Name:     "Bob",
			RoleCode: domain.RoleOrganizer,
			Approved: false,
		})
		require.NoError(t, err)
		assert.Equal(t, "Update on your ORGANIZER application", subject)
		assert.Contains(t, htmlBody, "unable to approve")
		assert.Contains(t, textBody, "unable to approve")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, _, err := renderer.Render("missing", nil)
		assert.Error(t, err)
	})
}
