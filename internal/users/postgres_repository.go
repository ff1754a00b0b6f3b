package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the pgx surface the repository needs, satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores users in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("users: database required")
	}
	return &PostgresRepository{db: db}
}

const userColumns = "user_id, email, name, picture, role, is_anonymous, created_at"

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (user_id, email, name, picture, role, is_anonymous, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.db.Exec(ctx, query,
		u.UserID,
		u.Email,
		u.Name,
		u.Picture,
		u.Role,
		u.IsAnonymous,
		u.CreatedAt,
	); err != nil {
		return fmt.Errorf("users: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a user by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE user_id = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, userID))
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(
		&u.UserID,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.Role,
		&u.IsAnonymous,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: select failed: %w", err)
	}
	return &u, nil
}
