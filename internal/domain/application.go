package domain

import (
	"context"
	"errors"
	"time"
)

// ErrAlreadyApplied is returned when a user with a pending application for
// the same role applies again.
var ErrAlreadyApplied = errors.New("application already pending")

// ApplicationStatus is the review status of a role application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// RoleApplication is a user's request to be granted a role (currently only
// ORGANIZER). Administrators review and decide applications.
// swagger:model RoleApplication
type RoleApplication struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	RoleCode  string            `json:"role_code"`
	Message   string            `json:"message"`
	Status    ApplicationStatus `json:"status"`
	DecidedBy *string           `json:"decided_by"`
	DecidedAt *time.Time        `json:"decided_at"`
	CreatedAt time.Time         `json:"created_at"`
}

// ApplicationRepository defines the interface for role application storage.
type ApplicationRepository interface {
	Create(ctx context.Context, a *RoleApplication) error
	GetByID(ctx context.Context, id string) (*RoleApplication, error)
	// HasPending reports whether the user already has a PENDING application
	// for the role.
	HasPending(ctx context.Context, userID, roleCode string) (bool, error)
	ListByStatus(ctx context.Context, status ApplicationStatus) ([]*RoleApplication, error)
	// Decide sets status, decided_by, and decided_at on a PENDING
	// application. Returns ErrNotFound if the application is missing or
	// already decided.
	Decide(ctx context.Context, id string, status ApplicationStatus, decidedBy string, decidedAt time.Time) error
}

// ApplicationService defines role application business logic.
type ApplicationService interface {
	Apply(ctx context.Context, actor Actor, roleCode, message string) (*RoleApplication, error)
	ListPending(ctx context.Context, actor Actor) ([]*RoleApplication, error)
	// Decide approves or rejects a pending application. Approval assigns the
	// requested role to the applicant and notifies them by email.
	Decide(ctx context.Context, actor Actor, applicationID string, approve bool) (*RoleApplication, error)
}
