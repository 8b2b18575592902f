// Package threads is the discussion engine: it reconstructs bounded,
// annotated comment trees from flat rows under an actor-dependent
// visibility predicate, and owns every comment mutation.
package threads

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/discussion-platform/internal/content"
	"github.com/example/discussion-platform/internal/events"
	"github.com/example/discussion-platform/internal/identity"
	"github.com/example/discussion-platform/internal/policy"
	"github.com/example/discussion-platform/internal/store"
)

// Pagination and shaping bounds.
const (
	DefaultPageSize        = 20
	MaxPageSize            = 50
	DefaultMaxDepth        = 3
	DefaultRepliesPerLevel = 5
	MaxRepliesPerLevel     = 20
	DefaultReplyLimit      = 5
	MaxReplyLimit          = 20
	MaxContentLength       = 10000
)

// Actor is the authenticated requester; nil means anonymous.
type Actor struct {
	ID string
}

// Service wires the stores and policies into the exposed operations.
type Service struct {
	comments  store.CommentStore
	reactions store.ReactionStore
	history   store.HistoryStore
	identity  identity.Provider
	authors   identity.Directory
	approval  *policy.AutoApproval
	content   *content.Processor
	events    *events.Publisher
	log       *zap.Logger
}

// Deps collects the service's collaborators. Authors and Events are
// optional; Log and Content default when nil.
type Deps struct {
	Comments  store.CommentStore
	Reactions store.ReactionStore
	History   store.HistoryStore
	Identity  identity.Provider
	Authors   identity.Directory
	Approval  *policy.AutoApproval
	Content   *content.Processor
	Events    *events.Publisher
	Log       *zap.Logger
}

func NewService(d Deps) *Service {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Content == nil {
		d.Content = content.New()
	}
	return &Service{
		comments:  d.Comments,
		reactions: d.Reactions,
		history:   d.History,
		identity:  d.Identity,
		authors:   d.Authors,
		approval:  d.Approval,
		content:   d.Content,
		events:    d.Events,
		log:       d.Log,
	}
}

// visibilityFor builds the read filter for an actor.
func (s *Service) visibilityFor(ctx context.Context, actor *Actor) (store.Visibility, error) {
	if actor == nil {
		return store.Visibility{}, nil
	}
	unapproved, err := s.identity.HasCapability(ctx, actor.ID, identity.CapViewUnapproved)
	if err != nil {
		return store.Visibility{}, err
	}
	return store.Visibility{ViewerID: actor.ID, ViewUnapproved: unapproved}, nil
}

// ThreadQuery shapes one thread fetch.
type ThreadQuery struct {
	Page            int
	PageSize        int
	MaxDepth        int
	RepliesPerLevel int
}

// DefaultThreadQuery returns the query used when the caller sets nothing.
func DefaultThreadQuery() ThreadQuery {
	return ThreadQuery{
		Page:            1,
		PageSize:        DefaultPageSize,
		MaxDepth:        DefaultMaxDepth,
		RepliesPerLevel: DefaultRepliesPerLevel,
	}
}

func (q ThreadQuery) validate() error {
	if q.Page < 1 {
		return invalid("page", "must be >= 1")
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return invalidf("page_size", "must be between 1 and %d", MaxPageSize)
	}
	if q.MaxDepth < 0 || q.MaxDepth > store.MaxDepth {
		return invalidf("max_depth", "must be between 0 and %d", store.MaxDepth)
	}
	if q.RepliesPerLevel < 1 || q.RepliesPerLevel > MaxRepliesPerLevel {
		return invalidf("replies_per_level", "must be between 1 and %d", MaxRepliesPerLevel)
	}
	return nil
}

// ReplyQuery shapes one reply-page expansion.
type ReplyQuery struct {
	Offset   int
	Limit    int
	MaxDepth int
}

// DefaultReplyQuery returns the query used when the caller sets nothing.
func DefaultReplyQuery() ReplyQuery {
	return ReplyQuery{Offset: 0, Limit: DefaultReplyLimit, MaxDepth: DefaultMaxDepth}
}

func (q ReplyQuery) validate() error {
	if q.Offset < 0 {
		return invalid("offset", "must be >= 0")
	}
	if q.Limit < 1 || q.Limit > MaxReplyLimit {
		return invalidf("limit", "must be between 1 and %d", MaxReplyLimit)
	}
	if q.MaxDepth < 0 || q.MaxDepth > store.MaxDepth {
		return invalidf("max_depth", "must be between 0 and %d", store.MaxDepth)
	}
	return nil
}
