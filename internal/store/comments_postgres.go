package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentStore persists comments in Postgres.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

// NewPostgresCommentStore creates a store backed by Postgres.
func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

const commentColumns = `id, post_id, parent_id, author_id, content, depth, approved, created_at, edited_at, deleted_at`

// visibilityClause compiles a Visibility filter into SQL, appending its
// bind values to args. It mirrors Visibility.Allows exactly.
func visibilityClause(vis Visibility, args *[]any) string {
	*args = append(*args, vis.ViewerID, vis.ViewUnapproved)
	n := len(*args)
	return fmt.Sprintf("(approved OR author_id = $%d OR $%d)", n-1, n)
}

func (s *PostgresCommentStore) Create(ctx context.Context, c Comment) (Comment, error) {
	const q = `INSERT INTO comments (post_id, parent_id, author_id, content, depth, approved)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING ` + commentColumns
	row := s.pool.QueryRow(ctx, q, c.PostID, c.ParentID, c.AuthorID, c.Content, c.Depth, c.Approved)
	return scanComment(row)
}

func (s *PostgresCommentStore) GetByID(ctx context.Context, id string) (Comment, error) {
	q := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(s.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Comment{}, ErrNotFound
	}
	return c, err
}

func (s *PostgresCommentStore) ListTopLevel(ctx context.Context, postID string, vis Visibility, limit, offset int) ([]Comment, error) {
	args := []any{postID}
	visSQL := visibilityClause(vis, &args)
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM comments
	     WHERE post_id = $1 AND parent_id IS NULL AND %s
	     ORDER BY created_at DESC, id DESC
	     LIMIT $%d OFFSET $%d`, commentColumns, visSQL, len(args)-1, len(args))
	return s.list(ctx, q, args...)
}

func (s *PostgresCommentStore) CountTopLevel(ctx context.Context, postID string, vis Visibility) (int, error) {
	args := []any{postID}
	visSQL := visibilityClause(vis, &args)
	q := fmt.Sprintf(`SELECT COUNT(*) FROM comments
	     WHERE post_id = $1 AND parent_id IS NULL AND %s`, visSQL)
	var n int
	err := s.pool.QueryRow(ctx, q, args...).Scan(&n)
	return n, err
}

func (s *PostgresCommentStore) ListReplies(ctx context.Context, postID string, vis Visibility) ([]Comment, error) {
	args := []any{postID}
	visSQL := visibilityClause(vis, &args)
	q := fmt.Sprintf(`SELECT %s FROM comments
	     WHERE post_id = $1 AND parent_id IS NOT NULL AND %s
	     ORDER BY created_at ASC, id ASC`, commentColumns, visSQL)
	return s.list(ctx, q, args...)
}

func (s *PostgresCommentStore) ListChildren(ctx context.Context, parentID string, vis Visibility, limit, offset int) ([]Comment, error) {
	args := []any{parentID}
	visSQL := visibilityClause(vis, &args)
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT %s FROM comments
	     WHERE parent_id = $1 AND %s
	     ORDER BY created_at ASC, id ASC
	     LIMIT $%d OFFSET $%d`, commentColumns, visSQL, len(args)-1, len(args))
	return s.list(ctx, q, args...)
}

func (s *PostgresCommentStore) CountChildren(ctx context.Context, parentIDs []string, vis Visibility) (map[string]int, error) {
	out := make(map[string]int, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	args := []any{parentIDs}
	visSQL := visibilityClause(vis, &args)
	q := fmt.Sprintf(`SELECT parent_id, COUNT(*) FROM comments
	     WHERE parent_id = ANY($1) AND %s
	     GROUP BY parent_id`, visSQL)
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var parentID string
		var n int
		if err := rows.Scan(&parentID, &n); err != nil {
			return nil, err
		}
		out[parentID] = n
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error {
	const q = `UPDATE comments SET content = $2, edited_at = $3
	           WHERE id = $1 AND deleted_at IS NULL`
	tag, err := s.pool.Exec(ctx, q, id, content, editedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	const q = `UPDATE comments SET deleted_at = $2
	           WHERE id = $1 AND deleted_at IS NULL`
	tag, err := s.pool.Exec(ctx, q, id, deletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) SetApproved(ctx context.Context, id string, approved bool) error {
	const q = `UPDATE comments SET approved = $2 WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, id, approved)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) list(ctx context.Context, q string, args ...any) ([]Comment, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComment(row pgx.Row) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.PostID, &c.ParentID, &c.AuthorID,
		&c.Content, &c.Depth, &c.Approved, &c.CreatedAt, &c.EditedAt, &c.DeletedAt)
	return c, err
}
