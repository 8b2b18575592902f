package threads

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/example/discussion-platform/internal/events"
	"github.com/example/discussion-platform/internal/identity"
	"github.com/example/discussion-platform/internal/store"
)

// CreateComment validates and writes a new comment. Approval is decided
// exactly once here; later group changes never revisit it.
func (s *Service) CreateComment(ctx context.Context, postID string, actor *Actor, rawContent string, parentID *string) (*Node, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(postID) == "" {
		return nil, invalid("post_id", "is required")
	}
	sanitized, err := s.cleanContent(rawContent)
	if err != nil {
		return nil, err
	}

	vis, err := s.visibilityFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	depth := 0
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if !vis.Allows(parent) {
			return nil, ErrNotFound
		}
		if parent.PostID != postID {
			return nil, invalid("parent_id", "belongs to a different post")
		}
		if parent.Depth >= store.MaxDepth {
			return nil, ErrDepthLimit
		}
		depth = parent.Depth + 1
	}

	approved, err := s.approval.Approve(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	created, err := s.comments.Create(ctx, store.Comment{
		PostID:   postID,
		ParentID: parentID,
		AuthorID: actor.ID,
		Content:  sanitized,
		Depth:    depth,
		Approved: approved,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("comment created",
		zap.String("comment_id", created.ID),
		zap.String("post_id", postID),
		zap.Int("depth", depth),
		zap.Bool("approved", approved))
	s.events.Publish(events.SubjectCommentCreated, created.ID, postID, actor.ID,
		map[string]any{"approved": approved, "depth": depth})

	return s.singleNode(ctx, actor, created)
}

// EditComment snapshots the current content, then overwrites it.
func (s *Service) EditComment(ctx context.Context, commentID string, actor *Actor, rawContent string) (*Node, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	sanitized, err := s.cleanContent(rawContent)
	if err != nil {
		return nil, err
	}

	c, err := s.visibleComment(ctx, commentID, actor)
	if err != nil {
		return nil, err
	}
	if c.DeletedAt != nil {
		return nil, ErrNotFound
	}
	if err := s.requireOwnOrAny(ctx, actor, c.AuthorID, identity.CapEditOwn, identity.CapEditAny); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.history.Append(ctx, store.EditSnapshot{
		CommentID: c.ID,
		Content:   c.Content,
		EditedAt:  now,
	}); err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, c.ID, sanitized, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	c.Content = sanitized
	c.EditedAt = &now

	s.log.Info("comment edited", zap.String("comment_id", c.ID))
	s.events.Publish(events.SubjectCommentEdited, c.ID, c.PostID, actor.ID, nil)

	return s.singleNode(ctx, actor, c)
}

// DeleteComment flags a comment deleted; the row and its children stay.
func (s *Service) DeleteComment(ctx context.Context, commentID string, actor *Actor) error {
	if actor == nil {
		return ErrForbidden
	}

	c, err := s.visibleComment(ctx, commentID, actor)
	if err != nil {
		return err
	}
	if c.DeletedAt != nil {
		return ErrNotFound
	}
	if err := s.requireOwnOrAny(ctx, actor, c.AuthorID, identity.CapDeleteOwn, identity.CapDeleteAny); err != nil {
		return err
	}

	if err := s.comments.SoftDelete(ctx, c.ID, time.Now().UTC()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.Info("comment deleted", zap.String("comment_id", c.ID))
	s.events.Publish(events.SubjectCommentDeleted, c.ID, c.PostID, actor.ID, nil)
	return nil
}

// ApproveComment publishes a pending comment. Idempotent.
func (s *Service) ApproveComment(ctx context.Context, commentID string, actor *Actor) error {
	if actor == nil {
		return ErrForbidden
	}
	ok, err := s.identity.HasCapability(ctx, actor.ID, identity.CapApprove)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}

	c, err := s.visibleComment(ctx, commentID, actor)
	if err != nil {
		return err
	}
	if c.Approved {
		return nil
	}

	if err := s.comments.SetApproved(ctx, c.ID, true); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.log.Info("comment approved", zap.String("comment_id", c.ID))
	s.events.Publish(events.SubjectCommentApproved, c.ID, c.PostID, actor.ID, nil)
	return nil
}

// cleanContent sanitizes raw input and enforces the length bounds.
func (s *Service) cleanContent(raw string) (string, error) {
	sanitized := s.content.Sanitize(raw)
	if sanitized == "" {
		return "", invalid("content", "is required")
	}
	if utf8.RuneCountInString(sanitized) > MaxContentLength {
		return "", invalidf("content", "must be at most %d characters", MaxContentLength)
	}
	return sanitized, nil
}

// visibleComment loads a comment and hides its existence from actors who
// may not see it.
func (s *Service) visibleComment(ctx context.Context, commentID string, actor *Actor) (store.Comment, error) {
	if strings.TrimSpace(commentID) == "" {
		return store.Comment{}, invalid("comment_id", "is required")
	}
	vis, err := s.visibilityFor(ctx, actor)
	if err != nil {
		return store.Comment{}, err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Comment{}, ErrNotFound
		}
		return store.Comment{}, err
	}
	if !vis.Allows(c) {
		return store.Comment{}, ErrNotFound
	}
	return c, nil
}

// requireOwnOrAny checks the owner capability when the actor wrote the
// comment, the blanket capability otherwise.
func (s *Service) requireOwnOrAny(ctx context.Context, actor *Actor, ownerID, ownCap, anyCap string) error {
	capability := anyCap
	if actor.ID == ownerID {
		capability = ownCap
	}
	ok, err := s.identity.HasCapability(ctx, actor.ID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}

// singleNode shapes one comment with its reply counts and decorations.
func (s *Service) singleNode(ctx context.Context, actor *Actor, c store.Comment) (*Node, error) {
	vis, err := s.visibilityFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	counts, err := s.comments.CountChildren(ctx, []string{c.ID}, vis)
	if err != nil {
		return nil, err
	}
	n := s.newNode(c, actor)
	n.TotalReplies = counts[c.ID]
	n.HasMoreReplies = n.TotalReplies > 0
	if err := s.decorate(ctx, actor, []*Node{n}, map[string]store.Comment{c.ID: c}); err != nil {
		return nil, err
	}
	return n, nil
}
