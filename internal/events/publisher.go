// Package events provides a fire-and-forget NATS publisher for comment
// lifecycle events. External collaborators (moderation tooling, analytics,
// notification delivery) subscribe to these subjects; nothing in this
// service consumes them.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for every comment lifecycle event.
const (
	SubjectCommentCreated  = "comments.comment.created"
	SubjectCommentEdited   = "comments.comment.edited"
	SubjectCommentDeleted  = "comments.comment.deleted"
	SubjectCommentApproved = "comments.comment.approved"
	SubjectCommentReacted  = "comments.comment.reacted"
)

// Event is the envelope published on all comments.* subjects.
type Event struct {
	EventID    string         `json:"event_id"`
	CommentID  string         `json:"comment_id"`
	PostID     string         `json:"post_id,omitempty"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes lifecycle events to NATS.
// A nil pointer and a nil connection are both safe no-op stubs.
type Publisher struct {
	nc  *nats.Conn
	log *zap.Logger
}

// New creates a Publisher over an existing connection.
// Pass nc=nil for a no-op stub (tests, deployments without NATS).
func New(nc *nats.Conn, log *zap.Logger) *Publisher {
	return &Publisher{nc: nc, log: log}
}

// Publish sends an event best-effort. Failures are logged as warnings and
// never surface to the caller; a mutation must not fail because an
// observer is unreachable.
func (p *Publisher) Publish(subject, commentID, postID, actorID string, props map[string]any) {
	if p == nil || p.nc == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		CommentID:  commentID,
		PostID:     postID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
