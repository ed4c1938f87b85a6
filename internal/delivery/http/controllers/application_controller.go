package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conventionlist/internal/delivery/http/helpers"
	"conventionlist/internal/delivery/http/middleware"
	"conventionlist/internal/domain"
)

// ApplyRequest is the request body for POST /applications.
type ApplyRequest struct {
	RoleCode string `json:"role_code"`
	Message  string `json:"message"`
}

// Validate implements Validator.
func (a ApplyRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.RoleCode) == "" {
		errs = append(errs, "role_code is required")
	}
	return errs
}

// DecideRequest is the request body for POST /admin/applications/{applicationID}/decision.
type DecideRequest struct {
	Approve *bool `json:"approve"`
}

// Validate implements Validator.
func (d DecideRequest) Validate() []string {
	var errs []string
	if d.Approve == nil {
		errs = append(errs, "approve is required")
	}
	return errs
}

// ApplicationController serves role application submission and admin review.
type ApplicationController struct {
	Logger  *slog.Logger
	Service domain.ApplicationService
}

func NewApplicationController(logger *slog.Logger, svc domain.ApplicationService) *ApplicationController {
	return &ApplicationController{Logger: logger, Service: svc}
}

// Apply godoc
// @Summary Apply for a role
// @Description Submit an application for the ORGANIZER role. One pending application per user.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param application body ApplyRequest true "Application data"
// @Success 201 {object} helpers.APIResponse "data contains the application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /applications [post]
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	app, err := c.Service.Apply(r.Context(), actor, strings.ToUpper(strings.TrimSpace(req.RoleCode)), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		case errors.Is(err, domain.ErrAlreadyApplied):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "an application is already pending")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, app)
}

// ListPending godoc
// @Summary List pending applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains pending applications"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/applications [get]
func (c *ApplicationController) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	apps, err := c.Service.ListPending(r.Context(), actor)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "admin role required")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if apps == nil {
		apps = []*domain.RoleApplication{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, apps)
}

// Decide godoc
// @Summary Decide an application
// @Description Approve or reject a pending application. Approval assigns the requested role and notifies the applicant by email.
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param applicationID path string true "Application ID (UUID)"
// @Param decision body DecideRequest true "Decision"
// @Success 200 {object} helpers.APIResponse "data contains the decided application"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/applications/{applicationID}/decision [post]
func (c *ApplicationController) Decide(w http.ResponseWriter, r *http.Request) {
	applicationID := r.PathValue("applicationID")
	if applicationID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing applicationID")
		return
	}
	var req DecideRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	app, err := c.Service.Decide(r.Context(), actor, applicationID, *req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "admin role required")
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "application not found or already decided")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, app)
}
