package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"conventionlist/internal/domain"
)

type applicationRepository struct {
	DB *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{DB: db}
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.RoleApplication) error {
	query := `
		INSERT INTO role_applications (user_id, role_code, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, a.UserID, a.RoleCode, a.Message, a.Status, a.CreatedAt).Scan(&a.ID)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.RoleApplication, error) {
	query := `
		SELECT id, user_id, role_code, message, status, decided_by, decided_at, created_at
		FROM role_applications
		WHERE id = $1
	`
	a := &domain.RoleApplication{}
	var decidedByNull sql.NullString
	var decidedAtNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.RoleCode, &a.Message, &a.Status, &decidedByNull, &decidedAtNull, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if decidedByNull.Valid {
		a.DecidedBy = &decidedByNull.String
	}
	if decidedAtNull.Valid {
		a.DecidedAt = &decidedAtNull.Time
	}
	return a, nil
}

func (r *applicationRepository) HasPending(ctx context.Context, userID, roleCode string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM role_applications
			WHERE user_id = $1 AND role_code = $2 AND status = 'PENDING'
		)
	`
	var exists bool
	if err := r.DB.QueryRowContext(ctx, query, userID, roleCode).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *applicationRepository) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]*domain.RoleApplication, error) {
	query := `
		SELECT id, user_id, role_code, message, status, decided_by, decided_at, created_at
		FROM role_applications
		WHERE status = $1
		ORDER BY created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps := make([]*domain.RoleApplication, 0)
	for rows.Next() {
		a := &domain.RoleApplication{}
		var decidedByNull sql.NullString
		var decidedAtNull sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &a.RoleCode, &a.Message, &a.Status, &decidedByNull, &decidedAtNull, &a.CreatedAt); err != nil {
			return nil, err
		}
		if decidedByNull.Valid {
			a.DecidedBy = &decidedByNull.String
		}
		if decidedAtNull.Valid {
			a.DecidedAt = &decidedAtNull.Time
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *applicationRepository) Decide(ctx context.Context, id string, status domain.ApplicationStatus, decidedBy string, decidedAt time.Time) error {
	query := `
		UPDATE role_applications
		SET status = $1, decided_by = $2, decided_at = $3
		WHERE id = $4 AND status = 'PENDING'
	`
	result, err := r.DB.ExecContext(ctx, query, status, decidedBy, decidedAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
