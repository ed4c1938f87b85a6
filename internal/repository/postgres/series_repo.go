package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conventionlist/internal/domain"
)

type seriesRepository struct {
	DB *sql.DB
}

func NewSeriesRepository(db *sql.DB) domain.SeriesRepository {
	return &seriesRepository{DB: db}
}

func (r *seriesRepository) Create(ctx context.Context, s *domain.ConventionSeries) error {
	query := `
		INSERT INTO convention_series (name, slug, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, s.Name, s.Slug, s.OrganizerID, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *seriesRepository) GetByID(ctx context.Context, id string) (*domain.ConventionSeries, error) {
	query := `
		SELECT id, name, slug, organizer_id, created_at, updated_at
		FROM convention_series
		WHERE id = $1
	`
	s := &domain.ConventionSeries{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name, &s.Slug, &s.OrganizerID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *seriesRepository) ListByOrganizerID(ctx context.Context, organizerID string) ([]*domain.ConventionSeries, error) {
	query := `
		SELECT id, name, slug, organizer_id, created_at, updated_at
		FROM convention_series
		WHERE organizer_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	series := make([]*domain.ConventionSeries, 0)
	for rows.Next() {
		s := &domain.ConventionSeries{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.OrganizerID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		series = append(series, s)
	}
	return series, rows.Err()
}
