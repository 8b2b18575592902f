package store

import "context"

// ToggleOutcome describes what a reaction toggle did.
type ToggleOutcome string

const (
	ToggleAdded   ToggleOutcome = "added"
	ToggleUpdated ToggleOutcome = "updated"
	ToggleRemoved ToggleOutcome = "removed"
)

// ReactionStore maintains the one-row-per-(comment,user) invariant.
// Toggle must be atomic: the check-then-mutate sequence for a single
// pair never interleaves with a concurrent toggle on the same pair in a
// way that produces a duplicate row.
type ReactionStore interface {
	// Toggle applies the ledger rules: no existing row inserts one
	// (added); an existing row of the same type is removed (removed);
	// an existing row of the other type is overwritten in place (updated).
	Toggle(ctx context.Context, commentID, userID string, typ ReactionType) (ToggleOutcome, error)

	// Aggregate returns per-comment like/dislike counts plus the
	// viewer's own reaction when viewerID is non-empty. Comments with no
	// reactions are absent from the map.
	Aggregate(ctx context.Context, commentIDs []string, viewerID string) (map[string]ReactionSummary, error)
}
