package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"conventionlist/internal/delivery/http/helpers"
	"conventionlist/internal/domain"
)

// CatalogListResponse is the payload for GET /conventions: one page of
// published conventions plus pagination metadata.
type CatalogListResponse struct {
	Conventions []*domain.Convention   `json:"conventions"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// CatalogController serves the public, unauthenticated browse endpoints.
type CatalogController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCatalogController(logger *slog.Logger, svc domain.CatalogService) *CatalogController {
	return &CatalogController{Logger: logger, Service: svc}
}

// List godoc
// @Summary Browse conventions
// @Description List published conventions, optionally filtered by free-text query, country, status, and date range. Drafts and deleted conventions never appear.
// @Tags catalog
// @Produce json
// @Param q query string false "Free-text search on name and city"
// @Param country query string false "Country filter"
// @Param status query string false "Status filter (PUBLISHED, PAST, CANCELLED)"
// @Param from query string false "Earliest start date (YYYY-MM-DD)"
// @Param to query string false "Latest start date (YYYY-MM-DD)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains conventions and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conventions [get]
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CatalogFilter{
		Query:      strings.TrimSpace(q.Get("q")),
		Country:    strings.TrimSpace(q.Get("country")),
		Pagination: helpers.ParsePagination(r),
	}
	if s := q.Get("status"); s != "" {
		st := domain.ConventionStatus(strings.ToUpper(s))
		if !domain.ValidStatus(st) || st == domain.StatusDraft {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status filter")
			return
		}
		filter.Status = &st
	}
	for _, p := range []struct {
		name string
		dest **time.Time
	}{
		{"from", &filter.From},
		{"to", &filter.To},
	} {
		if s := q.Get(p.name); s != "" {
			t, err := time.Parse(dateLayout, s)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, p.name+" must be in YYYY-MM-DD format")
				return
			}
			*p.dest = &t
		}
	}

	conventions, total, err := c.Service.Search(r.Context(), filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if conventions == nil {
		conventions = []*domain.Convention{}
	}
	meta := helpers.NewPaginationMeta(filter.Pagination.Page, filter.Pagination.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, CatalogListResponse{Conventions: conventions, Pagination: meta})
}

// GetBySlug godoc
// @Summary Get a convention by slug
// @Description Public detail view: the convention plus its primary venue, secondary venues, primary hotel, and additional hotels with photos.
// @Tags catalog
// @Produce json
// @Param slug path string true "Convention slug"
// @Success 200 {object} helpers.APIResponse "data contains the convention detail"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conventions/{slug} [get]
func (c *CatalogController) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	detail, err := c.Service.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "convention not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}
