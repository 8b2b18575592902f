package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCommentStore is a development and test implementation.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]Comment
	seq      map[string]uint64 // insertion order, breaks created_at ties
	nextSeq  uint64
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		comments: make(map[string]Comment),
		seq:      make(map[string]uint64),
	}
}

func (s *InMemoryCommentStore) Create(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.EditedAt = nil
	c.DeletedAt = nil
	s.comments[c.ID] = c
	s.nextSeq++
	s.seq[c.ID] = s.nextSeq
	return c, nil
}

func (s *InMemoryCommentStore) GetByID(_ context.Context, id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) ListTopLevel(_ context.Context, postID string, vis Visibility, limit, offset int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var roots []Comment
	for _, c := range s.comments {
		if c.PostID == postID && c.ParentID == nil && vis.Allows(c) {
			roots = append(roots, c)
		}
	}
	s.sortDesc(roots)
	return page(roots, limit, offset), nil
}

func (s *InMemoryCommentStore) CountTopLevel(_ context.Context, postID string, vis Visibility) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.comments {
		if c.PostID == postID && c.ParentID == nil && vis.Allows(c) {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryCommentStore) ListReplies(_ context.Context, postID string, vis Visibility) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var replies []Comment
	for _, c := range s.comments {
		if c.PostID == postID && c.ParentID != nil && vis.Allows(c) {
			replies = append(replies, c)
		}
	}
	s.sortAsc(replies)
	return replies, nil
}

func (s *InMemoryCommentStore) ListChildren(_ context.Context, parentID string, vis Visibility, limit, offset int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var children []Comment
	for _, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == parentID && vis.Allows(c) {
			children = append(children, c)
		}
	}
	s.sortAsc(children)
	return page(children, limit, offset), nil
}

func (s *InMemoryCommentStore) CountChildren(_ context.Context, parentIDs []string, vis Visibility) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]struct{}, len(parentIDs))
	for _, id := range parentIDs {
		wanted[id] = struct{}{}
	}
	out := make(map[string]int, len(parentIDs))
	for _, c := range s.comments {
		if c.ParentID == nil || !vis.Allows(c) {
			continue
		}
		if _, ok := wanted[*c.ParentID]; ok {
			out[*c.ParentID]++
		}
	}
	return out, nil
}

func (s *InMemoryCommentStore) UpdateContent(_ context.Context, id, content string, editedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.DeletedAt != nil {
		return ErrNotFound
	}
	c.Content = content
	c.EditedAt = &editedAt
	s.comments[id] = c
	return nil
}

func (s *InMemoryCommentStore) SoftDelete(_ context.Context, id string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok || c.DeletedAt != nil {
		return ErrNotFound
	}
	c.DeletedAt = &deletedAt
	s.comments[id] = c
	return nil
}

func (s *InMemoryCommentStore) SetApproved(_ context.Context, id string, approved bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return ErrNotFound
	}
	c.Approved = approved
	s.comments[id] = c
	return nil
}

func (s *InMemoryCommentStore) sortAsc(cs []Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.Before(cs[j].CreatedAt)
		}
		return s.seq[cs[i].ID] < s.seq[cs[j].ID]
	})
}

func (s *InMemoryCommentStore) sortDesc(cs []Comment) {
	sort.Slice(cs, func(i, j int) bool {
		if !cs[i].CreatedAt.Equal(cs[j].CreatedAt) {
			return cs[i].CreatedAt.After(cs[j].CreatedAt)
		}
		return s.seq[cs[i].ID] > s.seq[cs[j].ID]
	})
}

func page(cs []Comment, limit, offset int) []Comment {
	if offset >= len(cs) {
		return []Comment{}
	}
	cs = cs[offset:]
	if limit > 0 && len(cs) > limit {
		cs = cs[:limit]
	}
	return cs
}
