package psychologists

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

// PostgresRepository stores psychologist profiles in the relational
// database.
type PostgresRepository struct {
	db DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("psychologists: database required")
	}
	return &PostgresRepository{db: db}
}

const psychologistColumns = "psychologist_id, name, email, credentials, specialization, years_experience, pricing, rating, bio, picture, approved, created_at"

// Create inserts a new profile row.
func (r *PostgresRepository) Create(ctx context.Context, p *Psychologist) error {
	query := `
		INSERT INTO psychologists (psychologist_id, name, email, credentials, specialization, years_experience, pricing, rating, bio, picture, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if _, err := r.db.Exec(ctx, query,
		p.PsychologistID,
		p.Name,
		p.Email,
		p.Credentials,
		p.Specialization,
		p.YearsExperience,
		p.Pricing,
		p.Rating,
		p.Bio,
		p.Picture,
		p.Approved,
		p.CreatedAt,
	); err != nil {
		return fmt.Errorf("psychologists: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a profile by its id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Psychologist, error) {
	query := "SELECT " + psychologistColumns + " FROM psychologists WHERE psychologist_id = $1"
	p, err := scanPsychologist(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPsychologistNotFound
		}
		return nil, fmt.Errorf("psychologists: select failed: %w", err)
	}
	return p, nil
}

// List returns profiles ordered by creation time, paginated.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Psychologist, error) {
	query := "SELECT " + psychologistColumns + " FROM psychologists"
	if filter.ApprovedOnly {
		query += " WHERE approved = TRUE"
	}
	query += " ORDER BY created_at ASC OFFSET $1 LIMIT $2"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, query, filter.Skip, limit)
	if err != nil {
		return nil, fmt.Errorf("psychologists: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Psychologist
	for rows.Next() {
		p, err := scanPsychologist(rows)
		if err != nil {
			return nil, fmt.Errorf("psychologists: scan failed: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("psychologists: list failed: %w", err)
	}
	return out, nil
}

// SetApproved flips the approval flag for a profile.
func (r *PostgresRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE psychologists SET approved = $1 WHERE psychologist_id = $2", approved, id)
	if err != nil {
		return fmt.Errorf("psychologists: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPsychologistNotFound
	}
	return nil
}

func scanPsychologist(row pgx.Row) (*Psychologist, error) {
	var p Psychologist
	if err := row.Scan(
		&p.PsychologistID,
		&p.Name,
		&p.Email,
		&p.Credentials,
		&p.Specialization,
		&p.YearsExperience,
		&p.Pricing,
		&p.Rating,
		&p.Bio,
		&p.Picture,
		&p.Approved,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
