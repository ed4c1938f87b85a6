package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conventionlist/internal/domain"
	"conventionlist/internal/monitoring"
)

const searchCacheTTL = 60 * time.Second

type catalogService struct {
	conventionRepo domain.ConventionRepository
	venueRepo      domain.VenueRepository
	hotelRepo      domain.HotelRepository
	cache          domain.Cache
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewCatalogService returns the public browse/search service. cache may be
// nil, in which case every search hits the database.
func NewCatalogService(conventionRepo domain.ConventionRepository,
	venueRepo domain.VenueRepository,
	hotelRepo domain.HotelRepository,
	cache domain.Cache,
	logger *slog.Logger,
	timeout time.Duration,
) domain.CatalogService {
	return &catalogService{
		conventionRepo: conventionRepo,
		venueRepo:      venueRepo,
		hotelRepo:      hotelRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// searchResult is the cached shape of one search page.
type searchResult struct {
	Conventions []*domain.Convention `json:"conventions"`
	Total       int                  `json:"total"`
}

func searchCacheKey(f domain.CatalogFilter) string {
	status := ""
	if f.Status != nil {
		status = string(*f.Status)
	}
	from, to := "", ""
	if f.From != nil {
		from = f.From.Format("2006-01-02")
	}
	if f.To != nil {
		to = f.To.Format("2006-01-02")
	}
	return fmt.Sprintf("catalog:search:q=%s:country=%s:status=%s:from=%s:to=%s:page=%d:size=%d",
		f.Query, f.Country, status, from, to, f.Pagination.Page, f.Pagination.PageSize)
}

func (s *catalogService) Search(ctx context.Context, f domain.CatalogFilter) ([]*domain.Convention, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key := searchCacheKey(f)
	if s.cache != nil {
		var cached searchResult
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.WarnContext(ctx, "catalog cache read failed", "err", err)
		} else {
			monitoring.RecordCatalogCacheLookup(hit)
			if hit {
				return cached.Conventions, cached.Total, nil
			}
		}
	}

	conventions, total, err := s.conventionRepo.Search(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("search conventions: %w", err)
	}
	if conventions == nil {
		conventions = []*domain.Convention{}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, searchResult{Conventions: conventions, Total: total}, searchCacheTTL); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed", "err", err)
		}
	}
	return conventions, total, nil
}

func (s *catalogService) GetBySlug(ctx context.Context, slug string) (*domain.ConventionDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conv, err := s.conventionRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get convention: %w", err)
	}
	// Drafts are not publicly visible.
	if conv.Status == domain.StatusDraft {
		return nil, domain.ErrNotFound
	}

	venues, err := s.venueRepo.ListByConventionID(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	hotels, err := s.hotelRepo.ListByConventionID(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}

	detail := &domain.ConventionDetail{
		Convention:       conv,
		SecondaryVenues:  []*domain.Venue{},
		AdditionalHotels: []*domain.Hotel{},
	}
	for _, v := range venues {
		if v.IsPrimaryVenue {
			detail.PrimaryVenue = v
			continue
		}
		detail.SecondaryVenues = append(detail.SecondaryVenues, v)
	}
	for _, h := range hotels {
		if h.IsPrimaryHotel {
			detail.PrimaryHotel = h
			continue
		}
		detail.AdditionalHotels = append(detail.AdditionalHotels, h)
	}
	return detail, nil
}
