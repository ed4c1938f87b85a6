package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conventionlist/internal/delivery/http/middleware"
	"conventionlist/internal/domain"
)

type fakeApplicationService struct {
	applyErr     error
	listErr      error
	decideErr    error
	pending      []*domain.RoleApplication
	lastRoleCode string
	lastMessage  string
	lastDecideID string
	lastApprove  bool
	lastActor    domain.Actor
}

func (f *fakeApplicationService) Apply(_ context.Context, actor domain.Actor, roleCode, message string) (*domain.RoleApplication, error) {
	f.lastActor = actor
	f.lastRoleCode = roleCode
	f.lastMessage = message
	if f.applyErr != nil {
		return nil, f.applyErr
	}
	return &domain.RoleApplication{ID: "app-1", UserID: actor.ID, RoleCode: roleCode, Status: domain.ApplicationPending}, nil
}

func (f *fakeApplicationService) ListPending(_ context.Context, actor domain.Actor) ([]*domain.RoleApplication, error) {
	f.lastActor = actor
	return f.pending, f.listErr
}

func (f *fakeApplicationService) Decide(_ context.Context, actor domain.Actor, applicationID string, approve bool) (*domain.RoleApplication, error) {
	f.lastActor = actor
	f.lastDecideID = applicationID
	f.lastApprove = approve
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	status := domain.ApplicationRejected
	if approve {
		status = domain.ApplicationApproved
	}
	return &domain.RoleApplication{ID: applicationID, Status: status}, nil
}

func adminRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	actor := domain.Actor{ID: "admin-1", Roles: []string{domain.RoleAdmin}}
	return req.WithContext(middleware.SetActor(req.Context(), actor))
}

func TestApplicationControllerApply(t *testing.T) {
	t.Run("submits an application", func(t *testing.T) {
		svc := &fakeApplicationService{}
		ctrl := NewApplicationController(testLogger, svc)
		req := organizerRequest(t, http.MethodPost, "/applications", `{"role_code":"organizer","message":"I run FurCon"}`)
		rec := httptest.NewRecorder()

		ctrl.Apply(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, domain.RoleOrganizer, svc.lastRoleCode, "role code is upper-cased before hitting the service")
		assert.Equal(t, "I run FurCon", svc.lastMessage)
	})

	t.Run("rejects a missing role code", func(t *testing.T) {
		ctrl := NewApplicationController(testLogger, &fakeApplicationService{})
		req := organizerRequest(t, http.MethodPost, "/applications", `{"message":"hi"}`)
		rec := httptest.NewRecorder()

		ctrl.Apply(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps a pending duplicate to 409", func(t *testing.T) {
		svc := &fakeApplicationService{applyErr: domain.ErrAlreadyApplied}
		ctrl := NewApplicationController(testLogger, svc)
		req := organizerRequest(t, http.MethodPost, "/applications", `{"role_code":"ORGANIZER"}`)
		rec := httptest.NewRecorder()

		ctrl.Apply(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("maps an unknown role to 400", func(t *testing.T) {
		svc := &fakeApplicationService{applyErr: domain.ErrInvalidInput}
		ctrl := NewApplicationController(testLogger, svc)
		req := organizerRequest(t, http.MethodPost, "/applications", `{"role_code":"WIZARD"}`)
		rec := httptest.NewRecorder()

		ctrl.Apply(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestApplicationControllerListPending(t *testing.T) {
	t.Run("returns pending applications", func(t *testing.T) {
		svc := &fakeApplicationService{pending: []*domain.RoleApplication{
			{ID: "app-1", Status: domain.ApplicationPending},
		}}
		ctrl := NewApplicationController(testLogger, svc)
		req := adminRequest(t, http.MethodGet, "/admin/applications", "")
		rec := httptest.NewRecorder()

		ctrl.ListPending(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin-1", svc.lastActor.ID)
	})

	t.Run("encodes an empty list as an array", func(t *testing.T) {
		ctrl := NewApplicationController(testLogger, &fakeApplicationService{})
		req := adminRequest(t, http.MethodGet, "/admin/applications", "")
		rec := httptest.NewRecorder()

		ctrl.ListPending(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("maps forbidden to 403", func(t *testing.T) {
		svc := &fakeApplicationService{listErr: domain.ErrForbidden}
		ctrl := NewApplicationController(testLogger, svc)
		req := organizerRequest(t, http.MethodGet, "/admin/applications", "")
		rec := httptest.NewRecorder()

		ctrl.ListPending(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestApplicationControllerDecide(t *testing.T) {
	const target = "/admin/applications/app-1/decision"

	newRequest := func(t *testing.T, body string) (*http.Request, *httptest.ResponseRecorder) {
		req := adminRequest(t, http.MethodPost, target, body)
		req.SetPathValue("applicationID", "app-1")
		return req, httptest.NewRecorder()
	}

	t.Run("approves an application", func(t *testing.T) {
		svc := &fakeApplicationService{}
		ctrl := NewApplicationController(testLogger, svc)
		req, rec := newRequest(t, `{"approve":true}`)

		ctrl.Decide(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "app-1", svc.lastDecideID)
		assert.True(t, svc.lastApprove)
	})

	t.Run("rejects an application", func(t *testing.T) {
		svc := &fakeApplicationService{}
		ctrl := NewApplicationController(testLogger, svc)
		req, rec := newRequest(t, `{"approve":false}`)

		ctrl.Decide(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, svc.lastApprove)
	})

	t.Run("requires the approve field", func(t *testing.T) {
		ctrl := NewApplicationController(testLogger, &fakeApplicationService{})
		req, rec := newRequest(t, `{}`)

		ctrl.Decide(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maps service errors", func(t *testing.T) {
		tests := []struct {
			name       string
			err        error
			wantStatus int
		}{
			{"unknown application", domain.ErrNotFound, http.StatusNotFound},
			{"already decided", domain.ErrInvalidInput, http.StatusBadRequest},
			{"not an admin", domain.ErrForbidden, http.StatusForbidden},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				ctrl := NewApplicationController(testLogger, &fakeApplicationService{decideErr: tc.err})
				req, rec := newRequest(t, `{"approve":true}`)

				ctrl.Decide(rec, req)

				assert.Equal(t, tc.wantStatus, rec.Code)
			})
		}
	})
}
