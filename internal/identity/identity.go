// Package identity defines the contracts this service consumes from the
// external identity system: capability checks, group membership, and
// author lookups for display. Account storage and token issuance live
// elsewhere; only read-side collaborators are modelled here.
package identity

import "context"

// Capabilities checked by the discussion engine.
const (
	CapViewUnapproved = "view-unapproved"
	CapEditOwn        = "edit-own"
	CapEditAny        = "edit-any"
	CapDeleteOwn      = "delete-own"
	CapDeleteAny      = "delete-any"
	CapApprove        = "approve"
)

// Author is the public summary attached to returned comments.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Provider answers capability and group-membership questions for an actor.
type Provider interface {
	HasCapability(ctx context.Context, actorID, capability string) (bool, error)
	GroupsOf(ctx context.Context, actorID string) ([]string, error)
}

// Directory resolves author summaries for display. Implementations return
// only the ids they can resolve; callers render missing authors as null.
type Directory interface {
	Authors(ctx context.Context, ids []string) (map[string]Author, error)
}

// DefaultGrants maps group names to the capabilities they confer.
// The "user" baseline applies to every authenticated actor.
func DefaultGrants() map[string][]string {
	return map[string][]string{
		"user":      {CapEditOwn, CapDeleteOwn},
		"moderator": {CapViewUnapproved, CapEditAny, CapDeleteAny, CapApprove},
		"admin":     {CapViewUnapproved, CapEditAny, CapDeleteAny, CapApprove},
	}
}
