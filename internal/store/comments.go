package store

import (
	"context"
	"time"
)

// CommentStore is the row-level contract the thread engine builds on.
// List and count operations take the caller's Visibility so filtering
// happens as close to the data as the backend allows.
type CommentStore interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	GetByID(ctx context.Context, id string) (Comment, error)

	// ListTopLevel returns one page of parentless comments for a post,
	// newest first.
	ListTopLevel(ctx context.Context, postID string, vis Visibility, limit, offset int) ([]Comment, error)
	CountTopLevel(ctx context.Context, postID string, vis Visibility) (int, error)

	// ListReplies returns every visible non-root comment of a post as a
	// flat slice in ascending creation order. The engine assembles the
	// tree in memory; this keeps a thread read at a constant number of
	// queries regardless of depth or branching.
	ListReplies(ctx context.Context, postID string, vis Visibility) ([]Comment, error)

	// ListChildren returns one page of a comment's direct children in
	// ascending creation order.
	ListChildren(ctx context.Context, parentID string, vis Visibility, limit, offset int) ([]Comment, error)

	// CountChildren returns the number of visible direct children per
	// parent id. Parents with no visible children are absent from the map.
	CountChildren(ctx context.Context, parentIDs []string, vis Visibility) (map[string]int, error)

	UpdateContent(ctx context.Context, id, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error
	SetApproved(ctx context.Context, id string, approved bool) error
}
