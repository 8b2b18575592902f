package identity

import (
	"context"

	"github.com/example/discussion-platform/internal/platform/auth"
)

// ClaimsProvider derives capabilities and groups from the verified JWT
// claims already present in the request context. It answers only for the
// actor the token was issued to; other ids resolve to nothing.
type ClaimsProvider struct {
	Grants map[string][]string // group -> capabilities
	Base   []string            // capabilities for any authenticated actor
}

// NewClaimsProvider builds a provider over the default grant table.
func NewClaimsProvider() *ClaimsProvider {
	grants := DefaultGrants()
	return &ClaimsProvider{Grants: grants, Base: grants["user"]}
}

func (p *ClaimsProvider) HasCapability(ctx context.Context, actorID, capability string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok || uid != actorID {
		return false, nil
	}
	for _, c := range p.Base {
		if c == capability {
			return true, nil
		}
	}
	groups, _ := auth.GroupsFromContext(ctx)
	for _, g := range groups {
		for _, c := range p.Grants[g] {
			if c == capability {
				return true, nil
			}
		}
	}
	return false, nil
}

func (p *ClaimsProvider) GroupsOf(ctx context.Context, actorID string) ([]string, error) {
	uid, ok := auth.UserIDFromContext(ctx)
	if !ok || uid != actorID {
		return nil, nil
	}
	groups, _ := auth.GroupsFromContext(ctx)
	return groups, nil
}
