// Package policy holds the moderation policies applied at write time.
package policy

import (
	"context"

	"github.com/example/discussion-platform/internal/identity"
)

// AutoApproval decides whether a new comment is published immediately.
// The decision is made once, at creation time; later group changes never
// revisit the approved flag of existing comments.
type AutoApproval struct {
	provider identity.Provider
	trusted  map[string]struct{}
}

// NewAutoApproval configures the policy with the group names whose
// members publish without moderation.
func NewAutoApproval(provider identity.Provider, trustedGroups []string) *AutoApproval {
	trusted := make(map[string]struct{}, len(trustedGroups))
	for _, g := range trustedGroups {
		trusted[g] = struct{}{}
	}
	return &AutoApproval{provider: provider, trusted: trusted}
}

// Approve reports whether the author's comment should be approved on
// creation: true iff the author belongs to any trusted group.
func (a *AutoApproval) Approve(ctx context.Context, authorID string) (bool, error) {
	groups, err := a.provider.GroupsOf(ctx, authorID)
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if _, ok := a.trusted[g]; ok {
			return true, nil
		}
	}
	return false, nil
}
