// Package store persists comments, reactions, and edit history. It is the
// flat row store the thread engine reconstructs trees from; no tree shape
// lives at this layer.
package store

import (
	"errors"
	"time"
)

const (
	// MaxDepth is the nesting ceiling. A reply whose depth would exceed
	// it is rejected before any row is written.
	MaxDepth = 5

	// DeletedContent is the sentinel every read path renders in place of
	// a soft-deleted comment's content. The stored content is kept.
	DeletedContent = "[deleted]"
)

// ErrNotFound is returned for point lookups and row mutations whose
// target row does not exist (or is no longer mutable, e.g. already
// soft-deleted).
var ErrNotFound = errors.New("row not found")

// Comment is a single comment row. Depth is assigned at insert time:
// 0 for top-level comments, parent depth + 1 otherwise.
type Comment struct {
	ID        string     `json:"id"`
	PostID    string     `json:"post_id"`
	ParentID  *string    `json:"parent_id,omitempty"`
	AuthorID  string     `json:"author_id"`
	Content   string     `json:"content"`
	Depth     int        `json:"depth"`
	Approved  bool       `json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// ReactionType is the kind of reaction a user left on a comment.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionDislike ReactionType = "dislike"
)

// Valid reports whether t is a known reaction type.
func (t ReactionType) Valid() bool {
	return t == ReactionLike || t == ReactionDislike
}

// Reaction is one user's reaction to one comment. At most one row exists
// per (CommentID, UserID) pair.
type Reaction struct {
	ID        string       `json:"id"`
	CommentID string       `json:"comment_id"`
	UserID    string       `json:"user_id"`
	Type      ReactionType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
}

// ReactionSummary aggregates reactions for one comment. Viewer is the
// requesting user's own reaction, empty when none or anonymous.
type ReactionSummary struct {
	Likes    int          `json:"likes"`
	Dislikes int          `json:"dislikes"`
	Viewer   ReactionType `json:"viewer,omitempty"`
}

// EditSnapshot preserves a comment's content as it was immediately before
// an edit. Rows are append-only.
type EditSnapshot struct {
	ID        string    `json:"id"`
	CommentID string    `json:"comment_id"`
	Content   string    `json:"content"`
	EditedAt  time.Time `json:"edited_at"`
}

// Visibility is the actor-dependent read filter: a comment is visible
// when it is approved, when the viewer wrote it, or when the viewer may
// see unapproved content. The Postgres backend compiles it into the
// WHERE clause; the in-memory backend applies Allows as a post-filter.
type Visibility struct {
	ViewerID       string
	ViewUnapproved bool
}

// Allows is the pure predicate form of the filter.
func (v Visibility) Allows(c Comment) bool {
	if c.Approved || v.ViewUnapproved {
		return true
	}
	return v.ViewerID != "" && c.AuthorID == v.ViewerID
}
