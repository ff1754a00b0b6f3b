package stories

import (
	"context"
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

// PostgresRepository stores success stories in the relational database.
type PostgresRepository struct {
	db DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("stories: database required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new story row.
func (r *PostgresRepository) Create(ctx context.Context, s *Story) error {
	query := `
		INSERT INTO success_stories (story_id, category, content, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.Exec(ctx, query, s.StoryID, s.Category, s.Content, s.Approved, s.CreatedAt); err != nil {
		return fmt.Errorf("stories: insert failed: %w", err)
	}
	return nil
}

// ListApproved returns approved stories, oldest first.
func (r *PostgresRepository) ListApproved(ctx context.Context, limit int) ([]*Story, error) {
	if limit <= 0 {
		limit = 1000
	}
	query := `
		SELECT story_id, category, content, approved, created_at
		FROM success_stories
		WHERE approved = TRUE
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("stories: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Story
	for rows.Next() {
		var s Story
		if err := rows.Scan(&s.StoryID, &s.Category, &s.Content, &s.Approved, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("stories: scan failed: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stories: list failed: %w", err)
	}
	return out, nil
}

// SetApproved flips the approval flag for a story.
func (r *PostgresRepository) SetApproved(ctx context.Context, storyID string, approved bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE success_stories SET approved = $1 WHERE story_id = $2", approved, storyID)
	if err != nil {
		return fmt.Errorf("stories: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStoryNotFound
	}
	return nil
}
