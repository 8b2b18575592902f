package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReactionStore is a development and test implementation.
// The single mutex makes every toggle atomic.
type InMemoryReactionStore struct {
	mu        sync.Mutex
	reactions map[string]map[string]Reaction // comment id -> user id -> reaction
}

func NewInMemoryReactionStore() *InMemoryReactionStore {
	return &InMemoryReactionStore{reactions: make(map[string]map[string]Reaction)}
}

func (s *InMemoryReactionStore) Toggle(_ context.Context, commentID, userID string, typ ReactionType) (ToggleOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUser := s.reactions[commentID]
	if byUser == nil {
		byUser = make(map[string]Reaction)
		s.reactions[commentID] = byUser
	}

	existing, ok := byUser[userID]
	switch {
	case !ok:
		byUser[userID] = Reaction{
			ID:        uuid.NewString(),
			CommentID: commentID,
			UserID:    userID,
			Type:      typ,
			CreatedAt: time.Now().UTC(),
		}
		return ToggleAdded, nil
	case existing.Type == typ:
		delete(byUser, userID)
		return ToggleRemoved, nil
	default:
		existing.Type = typ
		byUser[userID] = existing
		return ToggleUpdated, nil
	}
}

func (s *InMemoryReactionStore) Aggregate(_ context.Context, commentIDs []string, viewerID string) (map[string]ReactionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]ReactionSummary, len(commentIDs))
	for _, id := range commentIDs {
		byUser := s.reactions[id]
		if len(byUser) == 0 {
			continue
		}
		var sum ReactionSummary
		for uid, r := range byUser {
			switch r.Type {
			case ReactionLike:
				sum.Likes++
			case ReactionDislike:
				sum.Dislikes++
			}
			if viewerID != "" && uid == viewerID {
				sum.Viewer = r.Type
			}
		}
		out[id] = sum
	}
	return out, nil
}
