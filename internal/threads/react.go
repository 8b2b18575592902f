package threads

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/discussion-platform/internal/events"
	"github.com/example/discussion-platform/internal/store"
)

// ReactionResult reports the actor's reaction after a toggle; Reaction is
// nil when the toggle removed it.
type ReactionResult struct {
	Reaction *store.ReactionType `json:"reaction"`
}

// React applies the ledger rules for one (comment, user) pair: first
// reaction inserts, repeating the same type removes, the other type
// switches in place. The store keeps the pair's check-then-mutate atomic.
func (s *Service) React(ctx context.Context, commentID string, actor *Actor, typ store.ReactionType) (*ReactionResult, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if !typ.Valid() {
		return nil, invalidf("type", "must be %q or %q", store.ReactionLike, store.ReactionDislike)
	}

	c, err := s.visibleComment(ctx, commentID, actor)
	if err != nil {
		return nil, err
	}

	outcome, err := s.reactions.Toggle(ctx, c.ID, actor.ID, typ)
	if err != nil {
		return nil, err
	}

	s.log.Debug("reaction toggled",
		zap.String("comment_id", c.ID),
		zap.String("outcome", string(outcome)))
	s.events.Publish(events.SubjectCommentReacted, c.ID, c.PostID, actor.ID,
		map[string]any{"type": string(typ), "outcome": string(outcome)})

	res := &ReactionResult{}
	if outcome != store.ToggleRemoved {
		t := typ
		res.Reaction = &t
	}
	return res, nil
}
