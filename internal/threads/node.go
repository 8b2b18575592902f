package threads

import (
	"context"
	"time"

	"github.com/example/discussion-platform/internal/identity"
	"github.com/example/discussion-platform/internal/store"
)

// Node is one comment as returned to callers, with its bounded child list.
type Node struct {
	ID             string                `json:"id"`
	PostID         string                `json:"post_id"`
	ParentID       *string               `json:"parent_id,omitempty"`
	Content        string                `json:"content"`
	ContentHTML    string                `json:"content_html,omitempty"`
	Depth          int                   `json:"depth"`
	Approved       bool                  `json:"approved"`
	CreatedAt      time.Time             `json:"created_at"`
	EditedAt       *time.Time            `json:"edited_at,omitempty"`
	DeletedAt      *time.Time            `json:"deleted_at,omitempty"`
	IsOwner        bool                  `json:"is_owner"`
	Author         *identity.Author      `json:"author"`
	Reactions      store.ReactionSummary `json:"reactions"`
	TotalReplies   int                   `json:"total_replies"`
	HasMoreReplies bool                  `json:"has_more_replies"`
	Replies        []*Node               `json:"replies"`
}

// ThreadPage is one page of top-level comments with their reply trees.
type ThreadPage struct {
	Comments      []*Node `json:"comments"`
	Page          int     `json:"page"`
	PageSize      int     `json:"page_size"`
	TotalTopLevel int     `json:"total_top_level"`
	HasMore       bool    `json:"has_more"`
}

// ReplyPage is one page of a comment's direct children.
type ReplyPage struct {
	Replies      []*Node `json:"replies"`
	Offset       int     `json:"offset"`
	Limit        int     `json:"limit"`
	TotalReplies int     `json:"total_replies"`
	HasMore      bool    `json:"has_more"`
}

// newNode shapes a comment row for output. Soft-deleted comments keep
// their position but render the sentinel instead of their content.
func (s *Service) newNode(c store.Comment, actor *Actor) *Node {
	n := &Node{
		ID:        c.ID,
		PostID:    c.PostID,
		ParentID:  c.ParentID,
		Depth:     c.Depth,
		Approved:  c.Approved,
		CreatedAt: c.CreatedAt,
		EditedAt:  c.EditedAt,
		DeletedAt: c.DeletedAt,
		IsOwner:   actor != nil && actor.ID == c.AuthorID,
		Replies:   []*Node{},
	}
	if c.DeletedAt != nil {
		n.Content = store.DeletedContent
	} else {
		n.Content = c.Content
		n.ContentHTML = s.content.Render(c.Content)
	}
	return n
}

// decorate attaches reaction aggregates and author summaries to every
// node reachable from roots, in one store round trip each.
func (s *Service) decorate(ctx context.Context, actor *Actor, roots []*Node, byID map[string]store.Comment) error {
	var ids []string
	var walk func(ns []*Node)
	walk = func(ns []*Node) {
		for _, n := range ns {
			ids = append(ids, n.ID)
			walk(n.Replies)
		}
	}
	walk(roots)
	if len(ids) == 0 {
		return nil
	}

	viewerID := ""
	if actor != nil {
		viewerID = actor.ID
	}
	sums, err := s.reactions.Aggregate(ctx, ids, viewerID)
	if err != nil {
		return err
	}

	authors := map[string]identity.Author{}
	if s.authors != nil {
		authorIDs := make([]string, 0, len(ids))
		seen := make(map[string]struct{})
		for _, id := range ids {
			aid := byID[id].AuthorID
			if _, ok := seen[aid]; ok {
				continue
			}
			seen[aid] = struct{}{}
			authorIDs = append(authorIDs, aid)
		}
		authors, err = s.authors.Authors(ctx, authorIDs)
		if err != nil {
			return err
		}
	}

	var apply func(ns []*Node)
	apply = func(ns []*Node) {
		for _, n := range ns {
			n.Reactions = sums[n.ID]
			if a, ok := authors[byID[n.ID].AuthorID]; ok {
				author := a
				n.Author = &author
			}
			apply(n.Replies)
		}
	}
	apply(roots)
	return nil
}
