package chat

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

// PostgresRepository stores chat messages in the relational database.
type PostgresRepository struct {
	db DB
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("chat: database required")
	}
	return &PostgresRepository{db: db}
}

// Append inserts messages in order.
func (r *PostgresRepository) Append(ctx context.Context, msgs ...*Message) error {
	query := `
		INSERT INTO chat_messages (message_id, session_id, user_id, role, content, is_crisis, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, m := range msgs {
		if _, err := r.db.Exec(ctx, query,
			m.MessageID,
			m.SessionID,
			m.UserID,
			m.Role,
			m.Content,
			m.IsCrisis,
			m.Timestamp,
		); err != nil {
			return fmt.Errorf("chat: insert failed: %w", err)
		}
	}
	return nil
}

// History returns a conversation oldest first, scoped to its owner.
func (r *PostgresRepository) History(ctx context.Context, sessionID, userID string, limit int) ([]*Message, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT message_id, session_id, user_id, role, content, is_crisis, timestamp
		FROM chat_messages
		WHERE session_id = $1 AND user_id = $2
		ORDER BY timestamp ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, sessionID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("chat: history failed: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.UserID, &m.Role, &m.Content, &m.IsCrisis, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("chat: scan failed: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chat: history failed: %w", err)
	}
	return out, nil
}

// DeleteHistory removes a conversation, scoped to its owner.
func (r *PostgresRepository) DeleteHistory(ctx context.Context, sessionID, userID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM chat_messages WHERE session_id = $1 AND user_id = $2", sessionID, userID); err != nil {
		return fmt.Errorf("chat: delete failed: %w", err)
	}
	return nil
}
