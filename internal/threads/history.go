package threads

import (
	"context"
	"time"

	"github.com/example/discussion-platform/internal/store"
)

// HistoryEntry is one revision of a comment, the live content included.
type HistoryEntry struct {
	Content  string     `json:"content"`
	EditedAt *time.Time `json:"edited_at,omitempty"`
	Current  bool       `json:"current"`
}

// History returns a comment's revisions, most recent first, with the
// live content on top marked current. A soft-deleted comment's live
// entry renders the sentinel like every other read path.
func (s *Service) History(ctx context.Context, commentID string, actor *Actor) ([]HistoryEntry, error) {
	c, err := s.visibleComment(ctx, commentID, actor)
	if err != nil {
		return nil, err
	}

	snaps, err := s.history.ListByComment(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	out := make([]HistoryEntry, 0, len(snaps)+1)
	current := HistoryEntry{Content: c.Content, EditedAt: c.EditedAt, Current: true}
	if c.DeletedAt != nil {
		current.Content = store.DeletedContent
	}
	out = append(out, current)
	for _, snap := range snaps {
		editedAt := snap.EditedAt
		out = append(out, HistoryEntry{Content: snap.Content, EditedAt: &editedAt})
	}
	return out, nil
}
