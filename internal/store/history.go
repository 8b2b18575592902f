package store

import "context"

// HistoryStore is the append-only edit history. Snapshots are written
// immediately before a content overwrite and never change afterwards.
type HistoryStore interface {
	Append(ctx context.Context, s EditSnapshot) (EditSnapshot, error)

	// ListByComment returns a comment's snapshots, most recent first.
	ListByComment(ctx context.Context, commentID string) ([]EditSnapshot, error)
}
