package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conventionlist/internal/domain"
)

type applicationService struct {
	applicationRepo domain.ApplicationRepository
	userRepo        domain.UserRepository
	roleRepo        domain.RoleRepository
	emailService    domain.EmailService
	logger          *slog.Logger
	contextTimeout  time.Duration
}

func NewApplicationService(applicationRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	roleRepo domain.RoleRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ApplicationService {
	return &applicationService{
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		emailService:    emailService,
		logger:          logger,
		contextTimeout:  timeout,
	}
}

func (s *applicationService) Apply(ctx context.Context, actor domain.Actor, roleCode, message string) (*domain.RoleApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if roleCode != domain.RoleOrganizer {
		return nil, fmt.Errorf("%w: role %q cannot be applied for", domain.ErrInvalidInput, roleCode)
	}
	if actor.HasRole(roleCode) {
		return nil, fmt.Errorf("%w: role already granted", domain.ErrInvalidInput)
	}
	pending, err := s.applicationRepo.HasPending(ctx, actor.ID, roleCode)
	if err != nil {
		return nil, fmt.Errorf("check pending applications: %w", err)
	}
	if pending {
		return nil, domain.ErrAlreadyApplied
	}

	app := &domain.RoleApplication{
		UserID:    actor.ID,
		RoleCode:  roleCode,
		Message:   message,
		Status:    domain.ApplicationPending,
		CreatedAt: time.Now(),
	}
	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return app, nil
}

func (s *applicationService) ListPending(ctx context.Context, actor domain.Actor) ([]*domain.RoleApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	apps, err := s.applicationRepo.ListByStatus(ctx, domain.ApplicationPending)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []*domain.RoleApplication{}
	}
	return apps, nil
}

func (s *applicationService) Decide(ctx context.Context, actor domain.Actor, applicationID string, approve bool) (*domain.RoleApplication, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app.Status != domain.ApplicationPending {
		return nil, fmt.Errorf("%w: application already decided", domain.ErrInvalidInput)
	}

	status := domain.ApplicationRejected
	if approve {
		status = domain.ApplicationApproved
	}
	now := time.Now()
	if err := s.applicationRepo.Decide(ctx, applicationID, status, actor.ID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("decide application: %w", err)
	}
	if approve {
		if err := s.userRepo.AssignRole(ctx, app.UserID, app.RoleCode); err != nil {
			return nil, fmt.Errorf("assign role: %w", err)
		}
	}
	app.Status = status
	app.DecidedBy = &actor.ID
	app.DecidedAt = &now

	// Notification failures do not undo the decision.
	applicant, err := s.userRepo.GetByID(ctx, app.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "applicant lookup for notification failed", "application_id", applicationID, "err", err)
		return app, nil
	}
	if err := s.emailService.SendApplicationDecision(ctx, &domain.ApplicationDecisionEmailData{
		Email:    applicant.Email,
		Name:     applicant.Name,
		RoleCode: app.RoleCode,
		Approved: approve,
	}); err != nil {
		s.logger.WarnContext(ctx, "application decision email failed", "application_id", applicationID, "err", err)
	}
	return app, nil
}
