package threads

import (
	"context"
	"errors"
	"strings"

	"github.com/example/discussion-platform/internal/store"
)

// FetchThread returns one page of a post's top-level comments, each with
// a depth- and fanout-bounded reply tree attached.
//
// The whole read costs a constant number of store queries: one top-level
// count, one top-level page, one flat fetch of every visible reply in
// the post, one grouped child count, plus one reaction aggregate and one
// author lookup for the emitted nodes. Recursive per-node fetches would
// cost a round trip per branch instead.
//
// The count and the fetches run outside a shared snapshot; under
// concurrent writes the reported totals can drift from the returned page
// within a single request. That is an accepted trade, not a defect.
func (s *Service) FetchThread(ctx context.Context, postID string, actor *Actor, q ThreadQuery) (*ThreadPage, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, invalid("post_id", "is required")
	}
	if err := q.validate(); err != nil {
		return nil, err
	}

	vis, err := s.visibilityFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	total, err := s.comments.CountTopLevel(ctx, postID, vis)
	if err != nil {
		return nil, err
	}

	roots, err := s.comments.ListTopLevel(ctx, postID, vis, q.PageSize, (q.Page-1)*q.PageSize)
	if err != nil {
		return nil, err
	}

	replies, err := s.comments.ListReplies(ctx, postID, vis)
	if err != nil {
		return nil, err
	}

	// Every id seen so far gets a node and participates in the grouped
	// child count, whether or not it ends up attached.
	byID := make(map[string]store.Comment, len(roots)+len(replies))
	ids := make([]string, 0, len(roots)+len(replies))
	for _, c := range roots {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}
	for _, c := range replies {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	childCounts, err := s.comments.CountChildren(ctx, ids, vis)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string]*Node, len(ids))
	for _, id := range ids {
		nodes[id] = s.newNode(byID[id], actor)
	}

	// Attach replies in ascending creation order. A reply is skipped,
	// not dropped from the counts, when it is below the depth window or
	// its parent already carries a full fanout.
	attached := make(map[string]int, len(ids))
	for _, r := range replies {
		if r.Depth > q.MaxDepth {
			continue
		}
		parent := nodes[*r.ParentID]
		if parent == nil {
			// Parent root belongs to another page.
			continue
		}
		if attached[*r.ParentID] >= q.RepliesPerLevel {
			continue
		}
		parent.Replies = append(parent.Replies, nodes[r.ID])
		attached[*r.ParentID]++
	}

	// One pass flags truncation from either cause: fanout overflow or
	// the depth window ending above existing children.
	for id, n := range nodes {
		n.TotalReplies = childCounts[id]
		n.HasMoreReplies = childCounts[id] > len(n.Replies)
	}

	out := make([]*Node, 0, len(roots))
	for _, c := range roots {
		out = append(out, nodes[c.ID])
	}
	if err := s.decorate(ctx, actor, out, byID); err != nil {
		return nil, err
	}

	return &ThreadPage{
		Comments:      out,
		Page:          q.Page,
		PageSize:      q.PageSize,
		TotalTopLevel: total,
		HasMore:       q.Page*q.PageSize < total,
	}, nil
}

// ExpandReplies returns the next page of one comment's direct children.
// It shares the visibility filter and counting queries with FetchThread
// so truncation semantics cannot diverge between the two paths.
func (s *Service) ExpandReplies(ctx context.Context, parentID string, actor *Actor, q ReplyQuery) (*ReplyPage, error) {
	if strings.TrimSpace(parentID) == "" {
		return nil, invalid("parent_id", "is required")
	}
	if err := q.validate(); err != nil {
		return nil, err
	}

	vis, err := s.visibilityFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	parent, err := s.comments.GetByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !vis.Allows(parent) {
		return nil, ErrNotFound
	}

	totals, err := s.comments.CountChildren(ctx, []string{parentID}, vis)
	if err != nil {
		return nil, err
	}
	total := totals[parentID]

	children, err := s.comments.ListChildren(ctx, parentID, vis, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]store.Comment, len(children))
	childIDs := make([]string, 0, len(children))
	for _, c := range children {
		byID[c.ID] = c
		childIDs = append(childIDs, c.ID)
	}
	grandCounts, err := s.comments.CountChildren(ctx, childIDs, vis)
	if err != nil {
		return nil, err
	}

	out := make([]*Node, 0, len(children))
	for _, c := range children {
		n := s.newNode(c, actor)
		n.TotalReplies = grandCounts[c.ID]
		// A child at the depth window's edge signals deeper levels even
		// when nothing was counted below it.
		n.HasMoreReplies = n.TotalReplies > 0 || c.Depth >= q.MaxDepth
		out = append(out, n)
	}
	if err := s.decorate(ctx, actor, out, byID); err != nil {
		return nil, err
	}

	return &ReplyPage{
		Replies:      out,
		Offset:       q.Offset,
		Limit:        q.Limit,
		TotalReplies: total,
		HasMore:      q.Offset+len(out) < total,
	}, nil
}
