package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"conventionlist/internal/delivery/http/helpers"
	"conventionlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	actor domain.Actor
	err   error
}

func (f *fakeTokenVerifier) Verify(_ string) (domain.Actor, error) {
	if f.err != nil {
		return domain.Actor{}, f.err
	}
	return f.actor, nil
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		verifier      domain.TokenVerifier
		wantStatus    int
		wantBodyCode  string
		nextCalled    bool
		wantContextID string
	}{
		{
			name:          "valid token sets actor and calls next",
			authHeader:    "Bearer valid-token",
			verifier:      &fakeTokenVerifier{actor: domain.Actor{ID: "user-123", Roles: []string{domain.RoleOrganizer}}},
			wantStatus:    http.StatusOK,
			nextCalled:    true,
			wantContextID: "user-123",
		},
		{
			name:         "missing authorization header",
			authHeader:   "",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{ID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{ID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     &fakeTokenVerifier{actor: domain.Actor{ID: "user-123"}},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("token expired")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
			nextCalled:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotActor domain.Actor
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotActor, _ = ActorFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			handler := RequireAuth(tt.verifier)(next)

			req := httptest.NewRequest(http.MethodGet, "/organizer/conventions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.nextCalled, nextCalled)
			if tt.wantContextID != "" {
				assert.Equal(t, tt.wantContextID, gotActor.ID)
			}
			if tt.wantBodyCode != "" {
				var resp helpers.APIResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				require.NotNil(t, resp.Error)
				assert.Equal(t, tt.wantBodyCode, resp.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		actor      *domain.Actor
		role       string
		wantStatus int
		nextCalled bool
	}{
		{
			name:       "actor has role",
			actor:      &domain.Actor{ID: "u1", Roles: []string{domain.RoleAdmin}},
			role:       domain.RoleAdmin,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:       "actor lacks role",
			actor:      &domain.Actor{ID: "u1", Roles: []string{domain.RoleUser}},
			role:       domain.RoleAdmin,
			wantStatus: http.StatusForbidden,
			nextCalled: false,
		},
		{
			name:       "no actor in context",
			actor:      nil,
			role:       domain.RoleAdmin,
			wantStatus: http.StatusUnauthorized,
			nextCalled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}

			handler := RequireRole(tt.role)(next)

			req := httptest.NewRequest(http.MethodGet, "/admin/applications", nil)
			if tt.actor != nil {
				req = req.WithContext(SetActor(req.Context(), *tt.actor))
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.nextCalled, nextCalled)
		})
	}
}
