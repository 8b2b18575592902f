package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReactionStore persists reactions in Postgres.
type PostgresReactionStore struct {
	pool *pgxpool.Pool
}

// NewPostgresReactionStore creates a store backed by Postgres.
func NewPostgresReactionStore(pool *pgxpool.Pool) *PostgresReactionStore {
	return &PostgresReactionStore{pool: pool}
}

func (s *PostgresReactionStore) Toggle(ctx context.Context, commentID, userID string, typ ReactionType) (ToggleOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock the pair's row for the duration of the toggle so concurrent
	// toggles serialize instead of inserting duplicates.
	var current ReactionType
	err = tx.QueryRow(ctx,
		`SELECT type FROM reactions WHERE comment_id = $1 AND user_id = $2 FOR UPDATE`,
		commentID, userID).Scan(&current)

	var outcome ToggleOutcome
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		outcome = ToggleAdded
		_, err = tx.Exec(ctx,
			`INSERT INTO reactions (comment_id, user_id, type) VALUES ($1, $2, $3)`,
			commentID, userID, typ)
	case err != nil:
		return "", err
	case current == typ:
		outcome = ToggleRemoved
		_, err = tx.Exec(ctx,
			`DELETE FROM reactions WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID)
	default:
		outcome = ToggleUpdated
		_, err = tx.Exec(ctx,
			`UPDATE reactions SET type = $3 WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID, typ)
	}
	if err != nil {
		return "", err
	}
	return outcome, tx.Commit(ctx)
}

func (s *PostgresReactionStore) Aggregate(ctx context.Context, commentIDs []string, viewerID string) (map[string]ReactionSummary, error) {
	out := make(map[string]ReactionSummary, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}

	const countQ = `SELECT comment_id,
	            COUNT(*) FILTER (WHERE type = 'like'),
	            COUNT(*) FILTER (WHERE type = 'dislike')
	        FROM reactions WHERE comment_id = ANY($1)
	        GROUP BY comment_id`
	rows, err := s.pool.Query(ctx, countQ, commentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var sum ReactionSummary
		if err := rows.Scan(&id, &sum.Likes, &sum.Dislikes); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if viewerID == "" {
		return out, nil
	}

	const viewerQ = `SELECT comment_id, type FROM reactions
	        WHERE comment_id = ANY($1) AND user_id = $2`
	vrows, err := s.pool.Query(ctx, viewerQ, commentIDs, viewerID)
	if err != nil {
		return nil, err
	}
	defer vrows.Close()
	for vrows.Next() {
		var id string
		var typ ReactionType
		if err := vrows.Scan(&id, &typ); err != nil {
			return nil, err
		}
		sum := out[id]
		sum.Viewer = typ
		out[id] = sum
	}
	return out, vrows.Err()
}
