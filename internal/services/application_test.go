package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"conventionlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApplicationRepo is an in-memory ApplicationRepository for tests.
type fakeApplicationRepo struct {
	byID map[string]*domain.RoleApplication
	seq  int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{byID: make(map[string]*domain.RoleApplication)}
}

func (f *fakeApplicationRepo) Create(_ context.Context, a *domain.RoleApplication) error {
	f.seq++
	a.ID = "app-" + string(rune('0'+f.seq))
	f.byID[a.ID] = a
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*domain.RoleApplication, error) {
	if a, ok := f.byID[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeApplicationRepo) HasPending(_ context.Context, userID, roleCode string) (bool, error) {
	for _, a := range f.byID {
		if a.UserID == userID && a.RoleCode == roleCode && a.Status == domain.ApplicationPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationRepo) ListByStatus(_ context.Context, status domain.ApplicationStatus) ([]*domain.RoleApplication, error) {
	out := []*domain.RoleApplication{}
	for _, a := range f.byID {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) Decide(_ context.Context, id string, status domain.ApplicationStatus, decidedBy string, decidedAt time.Time) error {
	a, ok := f.byID[id]
	if !ok || a.Status != domain.ApplicationPending {
		return domain.ErrNotFound
	}
	a.Status = status
	a.DecidedBy = &decidedBy
	a.DecidedAt = &decidedAt
	return nil
}

// fakeUserRepo records role assignments; lookups serve a fixed user.
type fakeUserRepo struct {
	user          *domain.User
	assignedRoles map[string][]string
	assignErr     error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		user:          &domain.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"},
		assignedRoles: make(map[string][]string),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User, _ domain.Credentials) error {
	u.ID = "user-1"
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetCredentials(_ context.Context, _ string) (domain.Credentials, error) {
	return domain.Credentials{}, nil
}

func (f *fakeUserRepo) AssignRole(_ context.Context, userID, roleCode string) error {
	if f.assignErr != nil {
		return f.assignErr
	}
	f.assignedRoles[userID] = append(f.assignedRoles[userID], roleCode)
	return nil
}

// fakeEmailService records decision notifications.
type fakeEmailService struct {
	sent []*domain.ApplicationDecisionEmailData
	err  error
}

func (f *fakeEmailService) SendApplicationDecision(_ context.Context, data *domain.ApplicationDecisionEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}

type applicationFixture struct {
	apps  *fakeApplicationRepo
	users *fakeUserRepo
	email *fakeEmailService
	svc   domain.ApplicationService
}

func newApplicationFixture() *applicationFixture {
	f := &applicationFixture{
		apps:  newFakeApplicationRepo(),
		users: newFakeUserRepo(),
		email: &fakeEmailService{},
	}
	f.svc = NewApplicationService(f.apps, f.users, nil, f.email, slog.New(slog.DiscardHandler), time.Second)
	return f
}

var (
	applicant = domain.Actor{ID: "user-1", Roles: []string{domain.RoleUser}}
	adminUser = domain.Actor{ID: "admin-1", Roles: []string{domain.RoleAdmin}}
)

func TestApply(t *testing.T) {
	t.Run("creates a pending organizer application", func(t *testing.T) {
		f := newApplicationFixture()

		app, err := f.svc.Apply(context.Background(), applicant, domain.RoleOrganizer, "I run FurCon")
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationPending, app.Status)
		assert.Equal(t, "user-1", app.UserID)
	})

	t.Run("rejects roles other than organizer", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.svc.Apply(context.Background(), applicant, domain.RoleAdmin, "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects when the role is already granted", func(t *testing.T) {
		f := newApplicationFixture()
		organizer := domain.Actor{ID: "user-1", Roles: []string{domain.RoleOrganizer}}
		_, err := f.svc.Apply(context.Background(), organizer, domain.RoleOrganizer, "")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("one pending application per user", func(t *testing.T) {
		f := newApplicationFixture()
		_, err := f.svc.Apply(context.Background(), applicant, domain.RoleOrganizer, "")
		require.NoError(t, err)
		_, err = f.svc.Apply(context.Background(), applicant, domain.RoleOrganizer, "")
		require.ErrorIs(t, err, domain.ErrAlreadyApplied)
	})
}

func TestDecide(t *testing.T) {
	submit := func(t *testing.T, f *applicationFixture) *domain.RoleApplication {
		t.Helper()
		app, err := f.svc.Apply(context.Background(), applicant, domain.RoleOrganizer, "")
		require.NoError(t, err)
		return app
	}

	t.Run("approval assigns the role and notifies the applicant", func(t *testing.T) {
		f := newApplicationFixture()
		app := submit(t, f)

		decided, err := f.svc.Decide(context.Background(), adminUser, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationApproved, decided.Status)
		require.NotNil(t, decided.DecidedBy)
		assert.Equal(t, "admin-1", *decided.DecidedBy)
		assert.Equal(t, []string{domain.RoleOrganizer}, f.users.assignedRoles["user-1"])
		require.Len(t, f.email.sent, 1)
		assert.True(t, f.email.sent[0].Approved)
		assert.Equal(t, "alice@example.com", f.email.sent[0].Email)
	})

	t.Run("rejection does not assign the role", func(t *testing.T) {
		f := newApplicationFixture()
		app := submit(t, f)

		decided, err := f.svc.Decide(context.Background(), adminUser, app.ID, false)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationRejected, decided.Status)
		assert.Empty(t, f.users.assignedRoles)
		require.Len(t, f.email.sent, 1)
		assert.False(t, f.email.sent[0].Approved)
	})

	t.Run("email failure does not undo the decision", func(t *testing.T) {
		f := newApplicationFixture()
		app := submit(t, f)
		f.email.err = errors.New("ses throttled")

		decided, err := f.svc.Decide(context.Background(), adminUser, app.ID, true)
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationApproved, decided.Status)
	})

	t.Run("non-admin cannot decide", func(t *testing.T) {
		f := newApplicationFixture()
		app := submit(t, f)
		_, err := f.svc.Decide(context.Background(), applicant, app.ID, true)
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("deciding twice fails", func(t *testing.T) {
		f := newApplicationFixture()
		app := submit(t, f)
		_, err := f.svc.Decide(context.Background(), adminUser, app.ID, true)
		require.NoError(t, err)
		_, err = f.svc.Decide(context.Background(), adminUser, app.ID, false)
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("listing pending requires admin", func(t *testing.T) {
		f := newApplicationFixture()
		submit(t, f)

		_, err := f.svc.ListPending(context.Background(), applicant)
		require.ErrorIs(t, err, domain.ErrForbidden)

		apps, err := f.svc.ListPending(context.Background(), adminUser)
		require.NoError(t, err)
		assert.Len(t, apps, 1)
	})
}
