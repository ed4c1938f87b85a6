package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conventionlist/internal/domain"
)

const conventionColumns = `id, series_id, name, slug, start_date, end_date, is_one_day_event, is_tbd,
		city, state_abbreviation, state_name, country, description_short, description_main,
		website_url, registration_url, cover_image_url, profile_image_url, status,
		guests_stay_at_primary_venue, deleted_at, created_at, updated_at`

type conventionRepository struct {
	DB *sql.DB
}

func NewConventionRepository(db *sql.DB) domain.ConventionRepository {
	return &conventionRepository{
		DB: db,
	}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanConvention(row rowScanner) (*domain.Convention, error) {
	c := &domain.Convention{}
	var startNull, endNull, deletedNull sql.NullTime
	var coverNull, profileNull sql.NullString
	err := row.Scan(
		&c.ID, &c.SeriesID, &c.Name, &c.Slug, &startNull, &endNull, &c.IsOneDayEvent, &c.IsTBD,
		&c.City, &c.StateAbbreviation, &c.StateName, &c.Country, &c.DescriptionShort, &c.DescriptionMain,
		&c.WebsiteURL, &c.RegistrationURL, &coverNull, &profileNull, &c.Status,
		&c.GuestsStayAtPrimaryVenue, &deletedNull, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startNull.Valid {
		c.StartDate = &startNull.Time
	}
	if endNull.Valid {
		c.EndDate = &endNull.Time
	}
	if deletedNull.Valid {
		c.DeletedAt = &deletedNull.Time
	}
	if coverNull.Valid {
		c.CoverImageURL = &coverNull.String
	}
	if profileNull.Valid {
		c.ProfileImageURL = &profileNull.String
	}
	return c, nil
}

func (r *conventionRepository) Create(ctx context.Context, c *domain.Convention) error {
	query := `
		INSERT INTO conventions (series_id, name, slug, start_date, end_date, is_one_day_event, is_tbd,
			city, state_abbreviation, state_name, country, description_short, description_main,
			website_url, registration_url, status, guests_stay_at_primary_venue, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		c.SeriesID, c.Name, c.Slug, c.StartDate, c.EndDate, c.IsOneDayEvent, c.IsTBD,
		c.City, c.StateAbbreviation, c.StateName, c.Country, c.DescriptionShort, c.DescriptionMain,
		c.WebsiteURL, c.RegistrationURL, c.Status, c.GuestsStayAtPrimaryVenue, c.CreatedAt, c.UpdatedAt,
	).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

func (r *conventionRepository) GetByID(ctx context.Context, id string) (*domain.Convention, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM conventions
		WHERE id = $1 AND deleted_at IS NULL
	`, conventionColumns)
	c, err := scanConvention(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conventionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Convention, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM conventions
		WHERE slug = $1 AND deleted_at IS NULL
	`, conventionColumns)
	c, err := scanConvention(r.DB.QueryRowContext(ctx, query, strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conventionRepository) ListBySeriesIDs(ctx context.Context, seriesIDs []string) ([]*domain.Convention, error) {
	if len(seriesIDs) == 0 {
		return []*domain.Convention{}, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM conventions
		WHERE series_id = ANY($1) AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, conventionColumns)
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(seriesIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	conventions := make([]*domain.Convention, 0)
	for rows.Next() {
		c, err := scanConvention(rows)
		if err != nil {
			return nil, err
		}
		conventions = append(conventions, c)
	}
	return conventions, rows.Err()
}

// Search translates the catalog filter into WHERE clauses. Drafts and
// soft-deleted conventions are never listed publicly.
func (r *conventionRepository) Search(ctx context.Context, f domain.CatalogFilter) ([]*domain.Convention, int, error) {
	where := []string{"deleted_at IS NULL", "status <> 'DRAFT'"}
	args := []interface{}{}
	n := 1
	if f.Query != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d)", n, n))
		args = append(args, "%"+f.Query+"%")
		n++
	}
	if f.Country != "" {
		where = append(where, fmt.Sprintf("country = $%d", n))
		args = append(args, f.Country)
		n++
	}
	if f.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, string(*f.Status))
		n++
	}
	if f.From != nil {
		where = append(where, fmt.Sprintf("start_date >= $%d", n))
		args = append(args, *f.From)
		n++
	}
	if f.To != nil {
		where = append(where, fmt.Sprintf("start_date <= $%d", n))
		args = append(args, *f.To)
		n++
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM conventions WHERE %s`, cond)
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM conventions
		WHERE %s
		ORDER BY start_date ASC NULLS LAST, name ASC
		LIMIT $%d OFFSET $%d
	`, conventionColumns, cond, n, n+1)
	args = append(args, f.Pagination.PageSize, f.Pagination.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	conventions := make([]*domain.Convention, 0)
	for rows.Next() {
		c, err := scanConvention(rows)
		if err != nil {
			return nil, 0, err
		}
		conventions = append(conventions, c)
	}
	return conventions, total, rows.Err()
}

func (r *conventionRepository) UpdateImages(ctx context.Context, id string, coverURL, profileURL *string) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if coverURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("cover_image_url = $%d", n))
		args = append(args, *coverURL)
		n++
	}
	if profileURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("profile_image_url = $%d", n))
		args = append(args, *profileURL)
		n++
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE conventions SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(setClauses, ", "), n)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *conventionRepository) SoftDelete(ctx context.Context, id, rewrittenSlug string) error {
	query := `
		UPDATE conventions
		SET deleted_at = NOW(), slug = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`
	result, err := r.DB.ExecContext(ctx, query, rewrittenSlug, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
