package identity

import (
	"context"
	"sync"
)

// StaticProvider keeps memberships, grants, and author records in memory.
// It backs development mode and tests; production deployments swap in a
// client for the real identity service.
type StaticProvider struct {
	mu      sync.RWMutex
	groups  map[string][]string // actor id -> groups
	grants  map[string][]string // group -> capabilities
	base    []string            // capabilities every authenticated actor holds
	authors map[string]Author
}

// NewStaticProvider builds a provider with the default grant table and
// the "user" baseline applied to every authenticated actor.
func NewStaticProvider() *StaticProvider {
	grants := DefaultGrants()
	return &StaticProvider{
		groups:  make(map[string][]string),
		grants:  grants,
		base:    grants["user"],
		authors: make(map[string]Author),
	}
}

// SetGroups replaces an actor's group memberships.
func (p *StaticProvider) SetGroups(actorID string, groups ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups[actorID] = append([]string(nil), groups...)
}

// Grant adds capabilities to a group.
func (p *StaticProvider) Grant(group string, capabilities ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants[group] = append(p.grants[group], capabilities...)
}

// AddAuthor registers an author record for directory lookups.
func (p *StaticProvider) AddAuthor(a Author) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.authors[a.ID] = a
}

func (p *StaticProvider) HasCapability(_ context.Context, actorID, capability string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, c := range p.base {
		if c == capability {
			return true, nil
		}
	}
	for _, g := range p.groups[actorID] {
		for _, c := range p.grants[g] {
			if c == capability {
				return true, nil
			}
		}
	}
	return false, nil
}

func (p *StaticProvider) GroupsOf(_ context.Context, actorID string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]string(nil), p.groups[actorID]...), nil
}

func (p *StaticProvider) Authors(_ context.Context, ids []string) (map[string]Author, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]Author, len(ids))
	for _, id := range ids {
		if a, ok := p.authors[id]; ok {
			out[id] = a
		}
	}
	return out, nil
}
