package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/netcode-labs/auth-service/internal/model"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

// notDeleted is the soft-delete predicate shared by every user lookup.
// Deleted rows stay in the table but must never be visible to the service.
const notDeleted = "deleted_at IS NULL"

type Users struct {
	Pool *pgxpool.Pool
}

func NewUsers(pool *pgxpool.Pool) *Users {
	return &Users{Pool: pool}
}

func (db *Users) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			roles TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ,
			deleted_at TIMESTAMPTZ
		)
		`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_live_idx ON users(email) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_live_idx ON users(username) WHERE deleted_at IS NULL`,
	}

	for _, query := range queries {
		if _, err := db.Pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func (db *Users) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, display_name, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := db.Pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.DisplayName,
		user.Roles,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (db *Users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return db.getOne(ctx, "email = $1", email)
}

func (db *Users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return db.getOne(ctx, "username = $1", username)
}

func (db *Users) GetByID(ctx context.Context, id string) (*model.User, error) {
	return db.getOne(ctx, "id = $1", id)
}

func (db *Users) getOne(ctx context.Context, predicate string, arg any) (*model.User, error) {
	query := `
		SELECT id, email, username, password_hash, display_name, roles, created_at, updated_at, deleted_at
		FROM users
		WHERE ` + predicate + ` AND ` + notDeleted

	var user model.User
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Roles,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
