package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryHistoryStore is a development and test implementation.
type InMemoryHistoryStore struct {
	mu        sync.RWMutex
	snapshots map[string][]EditSnapshot // comment id -> snapshots, append order
	seq       map[string]uint64
	nextSeq   uint64
}

func NewInMemoryHistoryStore() *InMemoryHistoryStore {
	return &InMemoryHistoryStore{
		snapshots: make(map[string][]EditSnapshot),
		seq:       make(map[string]uint64),
	}
}

func (s *InMemoryHistoryStore) Append(_ context.Context, snap EditSnapshot) (EditSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap.ID = uuid.NewString()
	s.snapshots[snap.CommentID] = append(s.snapshots[snap.CommentID], snap)
	s.nextSeq++
	s.seq[snap.ID] = s.nextSeq
	return snap, nil
}

func (s *InMemoryHistoryStore) ListByComment(_ context.Context, commentID string) ([]EditSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.snapshots[commentID]
	out := make([]EditSnapshot, len(stored))
	copy(out, stored)
	// Most recent first; append order breaks timestamp ties.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EditedAt.Equal(out[j].EditedAt) {
			return out[i].EditedAt.After(out[j].EditedAt)
		}
		return s.seq[out[i].ID] > s.seq[out[j].ID]
	})
	return out, nil
}
