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

// CreateSeriesRequest is the request body for POST /organizer/series.
type CreateSeriesRequest struct {
	Name string `json:"name"`
}

// Validate implements Validator.
func (c CreateSeriesRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

// SeriesController serves the organizer-facing series endpoints.
type SeriesController struct {
	Logger  *slog.Logger
	Service domain.SeriesService
}

func NewSeriesController(logger *slog.Logger, svc domain.SeriesService) *SeriesController {
	return &SeriesController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a convention series
// @Description Create a series owned by the caller. Conventions are always created inside a series.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param series body CreateSeriesRequest true "Series data"
// @Success 201 {object} helpers.APIResponse "data contains the created series"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/series [post]
func (c *SeriesController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSeriesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	series, err := c.Service.Create(r.Context(), actor, strings.TrimSpace(req.Name))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "organizer role required")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, series)
}

// ListOwn godoc
// @Summary List own series
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the caller's series"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/series [get]
func (c *SeriesController) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	series, err := c.Service.ListOwn(r.Context(), actor)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, series)
}
