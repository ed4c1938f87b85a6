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

// searchRecordingRepo wraps fakeConventionRepo to count and serve searches.
type searchRecordingRepo struct {
	*fakeConventionRepo
	searchCalls  int
	searchResult []*domain.Convention
	searchTotal  int
	searchErr    error
}

func (f *searchRecordingRepo) Search(ctx context.Context, filter domain.CatalogFilter) ([]*domain.Convention, int, error) {
	f.searchCalls++
	return f.searchResult, f.searchTotal, f.searchErr
}

// fakeCache is an in-memory domain.Cache keyed by the raw cache key.
type fakeCache struct {
	entries  map[string]searchResult
	getErr   error
	setErr   error
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]searchResult)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	entry, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	*dest.(*searchResult) = entry
	return true, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value.(searchResult)
	return nil
}

type fakeVenueRepo struct {
	venues []*domain.Venue
	err    error
}

func (f *fakeVenueRepo) ListByConventionID(_ context.Context, _ string) ([]*domain.Venue, error) {
	return f.venues, f.err
}

type fakeHotelRepo struct {
	hotels []*domain.Hotel
	err    error
}

func (f *fakeHotelRepo) ListByConventionID(_ context.Context, _ string) ([]*domain.Hotel, error) {
	return f.hotels, f.err
}

func newCatalogFixture() (*searchRecordingRepo, *fakeVenueRepo, *fakeHotelRepo, *fakeCache, domain.CatalogService) {
	repo := &searchRecordingRepo{fakeConventionRepo: newFakeConventionRepo()}
	venues := &fakeVenueRepo{}
	hotels := &fakeHotelRepo{}
	cache := newFakeCache()
	svc := NewCatalogService(repo, venues, hotels, cache, slog.New(slog.DiscardHandler), time.Second)
	return repo, venues, hotels, cache, svc
}

func TestCatalogSearch(t *testing.T) {
	filter := domain.CatalogFilter{
		Query:      "fur",
		Pagination: domain.PaginationParams{Page: 1, PageSize: 20},
	}

	t.Run("miss hits the database and fills the cache", func(t *testing.T) {
		repo, _, _, cache, svc := newCatalogFixture()
		repo.searchResult = []*domain.Convention{{ID: "c1", Name: "FurCon"}}
		repo.searchTotal = 1

		conventions, total, err := svc.Search(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, conventions, 1)
		assert.Equal(t, 1, repo.searchCalls)
		assert.Equal(t, 1, cache.setCalls)

		// Second identical search is served from the cache.
		conventions, total, err = svc.Search(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, conventions, 1)
		assert.Equal(t, 1, repo.searchCalls)
	})

	t.Run("different filters use different cache entries", func(t *testing.T) {
		repo, _, _, _, svc := newCatalogFixture()

		_, _, err := svc.Search(context.Background(), filter)
		require.NoError(t, err)

		other := filter
		other.Country = "US"
		_, _, err = svc.Search(context.Background(), other)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.searchCalls)
	})

	t.Run("cache read failure falls through to the database", func(t *testing.T) {
		repo, _, _, cache, svc := newCatalogFixture()
		cache.getErr = errors.New("redis down")
		repo.searchResult = []*domain.Convention{{ID: "c1"}}
		repo.searchTotal = 1

		conventions, total, err := svc.Search(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, conventions, 1)
	})

	t.Run("database error is returned", func(t *testing.T) {
		repo, _, _, _, svc := newCatalogFixture()
		repo.searchErr = errors.New("connection reset")

		_, _, err := svc.Search(context.Background(), filter)
		require.Error(t, err)
	})
}

func TestCatalogGetBySlug(t *testing.T) {
	seed := func(repo *searchRecordingRepo, status domain.ConventionStatus) *domain.Convention {
		conv := &domain.Convention{Name: "FurCon", Slug: "furcon", Status: status}
		_ = repo.Create(context.Background(), conv)
		return conv
	}

	t.Run("partitions venues and hotels into primary and rest", func(t *testing.T) {
		repo, venues, hotels, _, svc := newCatalogFixture()
		conv := seed(repo, domain.StatusPublished)
		venues.venues = []*domain.Venue{
			{ID: "v1", VenueName: "Convention Center", IsPrimaryVenue: true},
			{ID: "v2", VenueName: "Annex"},
		}
		hotels.hotels = []*domain.Hotel{
			{ID: "h1", HotelName: "Alpha", IsPrimaryHotel: true},
			{ID: "h2", HotelName: "Beta"},
		}

		detail, err := svc.GetBySlug(context.Background(), conv.Slug)
		require.NoError(t, err)
		require.NotNil(t, detail.PrimaryVenue)
		assert.Equal(t, "v1", detail.PrimaryVenue.ID)
		require.Len(t, detail.SecondaryVenues, 1)
		assert.Equal(t, "v2", detail.SecondaryVenues[0].ID)
		require.NotNil(t, detail.PrimaryHotel)
		assert.Equal(t, "h1", detail.PrimaryHotel.ID)
		require.Len(t, detail.AdditionalHotels, 1)
	})

	t.Run("draft conventions are not publicly visible", func(t *testing.T) {
		repo, _, _, _, svc := newCatalogFixture()
		conv := seed(repo, domain.StatusDraft)

		_, err := svc.GetBySlug(context.Background(), conv.Slug)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, _, _, _, svc := newCatalogFixture()
		_, err := svc.GetBySlug(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}
