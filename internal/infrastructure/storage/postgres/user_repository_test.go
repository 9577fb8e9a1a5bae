package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"feedkeeper/internal/domain/user"
)

func TestUserRepository_Create(t *testing.T) {
	u := user.User{ID: "u1", Login: "alice", Password: "hash"}

	tests := []struct {
		name    string
		execErr error
		wantIs  error
	}{
		{name: "success"},
		{name: "duplicate login", execErr: &pgconn.PgError{Code: uniqueViolation}, wantIs: user.ErrLoginTaken},
		{name: "database error", execErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockStorage(t)
			repo := NewUserRepository(db, slog.Default())

			exp := mock.ExpectExec("INSERT INTO users").WithArgs("u1", "alice", "hash")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.Create(context.Background(), u)
			switch {
			case tt.wantIs != nil:
				assert.ErrorIs(t, err, tt.wantIs)
			case tt.execErr != nil:
				assert.ErrorContains(t, err, "connection reset")
				assert.NotErrorIs(t, err, user.ErrLoginTaken)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_FindByLogin(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockStorage(t)
		repo := NewUserRepository(db, slog.Default())

		mock.ExpectQuery("FROM users WHERE login").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows([]string{"id", "login", "password_hash", "created_at"}).
				AddRow("u1", "alice", "hash", created))

		u, err := repo.FindByLogin(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, user.User{ID: "u1", Login: "alice", Password: "hash", CreatedAt: created}, u)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockStorage(t)
		repo := NewUserRepository(db, slog.Default())

		mock.ExpectQuery("FROM users WHERE login").
			WithArgs("nobody").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.FindByLogin(context.Background(), "nobody")
		assert.ErrorIs(t, err, user.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
