package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHistoryStore persists edit snapshots in Postgres.
type PostgresHistoryStore struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryStore creates a store backed by Postgres.
func NewPostgresHistoryStore(pool *pgxpool.Pool) *PostgresHistoryStore {
	return &PostgresHistoryStore{pool: pool}
}

func (s *PostgresHistoryStore) Append(ctx context.Context, snap EditSnapshot) (EditSnapshot, error) {
	const q = `INSERT INTO comment_edit_history (comment_id, content, edited_at)
	           VALUES ($1, $2, $3)
	           RETURNING id, comment_id, content, edited_at`
	row := s.pool.QueryRow(ctx, q, snap.CommentID, snap.Content, snap.EditedAt)
	var out EditSnapshot
	err := row.Scan(&out.ID, &out.CommentID, &out.Content, &out.EditedAt)
	return out, err
}

func (s *PostgresHistoryStore) ListByComment(ctx context.Context, commentID string) ([]EditSnapshot, error) {
	const q = `SELECT id, comment_id, content, edited_at
	           FROM comment_edit_history
	           WHERE comment_id = $1
	           ORDER BY edited_at DESC, id DESC`
	rows, err := s.pool.Query(ctx, q, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EditSnapshot
	for rows.Next() {
		var snap EditSnapshot
		if err := rows.Scan(&snap.ID, &snap.CommentID, &snap.Content, &snap.EditedAt); err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
