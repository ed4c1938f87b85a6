package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"conventionlist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	t.Run("stores credentials alongside the user", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice@example.com", "hash", "salt", "Alice", "Smith", now, now).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))

		u := &domain.User{Email: "alice@example.com", Name: "Alice", LastName: "Smith", CreatedAt: now, UpdatedAt: now}
		err := repo.Create(ctx, u, domain.Credentials{Hash: "hash", Salt: "salt"})
		require.NoError(t, err)
		assert.Equal(t, "user-uuid-1", u.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation returns ErrDuplicateEmail", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Create(ctx, &domain.User{Email: "taken@example.com"}, domain.Credentials{})
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserRepository_GetCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT password_hash, salt\s+FROM users`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash", "salt"}).AddRow("hash", "salt"))

		creds, err := repo.GetCredentials(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "hash", creds.Hash)
		assert.Equal(t, "salt", creds.Salt)
	})

	t.Run("missing user maps to ErrUserNotFound", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectQuery(`SELECT password_hash, salt\s+FROM users`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"password_hash", "salt"}))

		_, err := repo.GetCredentials(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserRepository_AssignRole(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the role by code", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO user_roles (.+) SELECT \$1, id FROM roles WHERE code = \$2`).
			WithArgs("user-1", domain.RoleOrganizer).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.AssignRole(ctx, "user-1", domain.RoleOrganizer))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("assigning an already held role is a no-op", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewUserRepository(db)

		mock.ExpectExec(`INSERT INTO user_roles`).
			WithArgs("user-1", domain.RoleUser).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, repo.AssignRole(ctx, "user-1", domain.RoleUser))
	})
}
