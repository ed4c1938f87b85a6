package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conventionlist/internal/domain"
)

type seriesService struct {
	seriesRepo     domain.SeriesRepository
	contextTimeout time.Duration
}

func NewSeriesService(seriesRepo domain.SeriesRepository, timeout time.Duration) domain.SeriesService {
	return &seriesService{
		seriesRepo:     seriesRepo,
		contextTimeout: timeout,
	}
}

func (s *seriesService) Create(ctx context.Context, actor domain.Actor, name string) (*domain.ConventionSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !actor.IsAdmin() && !actor.HasRole(domain.RoleOrganizer) {
		return nil, domain.ErrForbidden
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	series := domain.NewConventionSeries(name, Slugify(name), actor.ID, now, now)
	err := s.seriesRepo.Create(ctx, series)
	if errors.Is(err, domain.ErrDuplicateSlug) {
		suffix, sErr := generateShortCode()
		if sErr != nil {
			return nil, fmt.Errorf("generate slug suffix: %w", sErr)
		}
		series.Slug = series.Slug + "-" + suffix
		err = s.seriesRepo.Create(ctx, series)
	}
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return series, nil
}

func (s *seriesService) ListOwn(ctx context.Context, actor domain.Actor) ([]*domain.ConventionSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.seriesRepo.ListByOrganizerID(ctx, actor.ID)
}
