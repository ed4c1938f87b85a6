package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"conventionlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalogService implements domain.CatalogService for handler tests.
type fakeCatalogService struct {
	searchErr       error
	searchResult    []*domain.Convention
	searchTotal     int
	lastFilter      domain.CatalogFilter
	getBySlugErr    error
	getBySlugResult *domain.ConventionDetail
	lastSlug        string
}

func (f *fakeCatalogService) Search(_ context.Context, filter domain.CatalogFilter) ([]*domain.Convention, int, error) {
	f.lastFilter = filter
	return f.searchResult, f.searchTotal, f.searchErr
}

func (f *fakeCatalogService) GetBySlug(_ context.Context, slug string) (*domain.ConventionDetail, error) {
	f.lastSlug = slug
	if f.getBySlugErr != nil {
		return nil, f.getBySlugErr
	}
	return f.getBySlugResult, nil
}

func TestCatalogControllerList(t *testing.T) {
	t.Run("parses filters and pagination", func(t *testing.T) {
		svc := &fakeCatalogService{
			searchResult: []*domain.Convention{{ID: "c1", Name: "FurCon", Slug: "furcon"}},
			searchTotal:  41,
		}
		ctrl := NewCatalogController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/conventions?q=fur&country=US&status=published&from=2027-01-01&page=2&page_size=20", nil)
		rec := httptest.NewRecorder()
		ctrl.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "fur", svc.lastFilter.Query)
		assert.Equal(t, "US", svc.lastFilter.Country)
		require.NotNil(t, svc.lastFilter.Status)
		assert.Equal(t, domain.StatusPublished, *svc.lastFilter.Status)
		require.NotNil(t, svc.lastFilter.From)
		assert.Equal(t, 2, svc.lastFilter.Pagination.Page)

		resp := decodeEnvelope(t, rec)
		require.Nil(t, resp.Error)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		pagination, ok := data["pagination"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(41), pagination["total"])
		assert.Equal(t, float64(3), pagination["total_pages"])
	})

	t.Run("rejects draft status filter", func(t *testing.T) {
		ctrl := NewCatalogController(testLogger, &fakeCatalogService{})
		req := httptest.NewRequest(http.MethodGet, "/conventions?status=DRAFT", nil)
		rec := httptest.NewRecorder()
		ctrl.List(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed date filter", func(t *testing.T) {
		ctrl := NewCatalogController(testLogger, &fakeCatalogService{})
		req := httptest.NewRequest(http.MethodGet, "/conventions?from=tomorrow", nil)
		rec := httptest.NewRecorder()
		ctrl.List(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty result is an empty list not null", func(t *testing.T) {
		ctrl := NewCatalogController(testLogger, &fakeCatalogService{})
		req := httptest.NewRequest(http.MethodGet, "/conventions", nil)
		rec := httptest.NewRecorder()
		ctrl.List(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"conventions":[]`)
	})
}

func TestCatalogControllerGetBySlug(t *testing.T) {
	t.Run("returns the detail view", func(t *testing.T) {
		svc := &fakeCatalogService{
			getBySlugResult: &domain.ConventionDetail{
				Convention:   &domain.Convention{ID: "c1", Slug: "furcon", Status: domain.StatusPublished},
				PrimaryVenue: &domain.Venue{ID: "v1", VenueName: "Convention Center"},
			},
		}
		ctrl := NewCatalogController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "/conventions/furcon", nil)
		req.SetPathValue("slug", "furcon")
		rec := httptest.NewRecorder()
		ctrl.GetBySlug(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "furcon", svc.lastSlug)
		assert.Contains(t, rec.Body.String(), "Convention Center")
	})

	t.Run("unknown slug yields 404", func(t *testing.T) {
		ctrl := NewCatalogController(testLogger, &fakeCatalogService{getBySlugErr: domain.ErrNotFound})
		req := httptest.NewRequest(http.MethodGet, "/conventions/missing", nil)
		req.SetPathValue("slug", "missing")
		rec := httptest.NewRecorder()
		ctrl.GetBySlug(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
