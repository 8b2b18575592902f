package identity

import (
	"context"
	"testing"

	"github.com/example/discussion-platform/internal/platform/auth"
)

var (
	_ Provider  = (*StaticProvider)(nil)
	_ Directory = (*StaticProvider)(nil)
	_ Provider  = (*ClaimsProvider)(nil)
)

// ─── static provider ─────────────────────────────────────────────────────────

func TestStaticProvider_BaselineCapabilities(t *testing.T) {
	p := NewStaticProvider()
	ctx := context.Background()

	for _, capability := range []string{CapEditOwn, CapDeleteOwn} {
		ok, err := p.HasCapability(ctx, "anyone", capability)
		if err != nil || !ok {
			t.Errorf("expected baseline %s for authenticated actor, got %v (%v)", capability, ok, err)
		}
	}
	if ok, _ := p.HasCapability(ctx, "anyone", CapApprove); ok {
		t.Fatal("baseline must not include approve")
	}
	if ok, _ := p.HasCapability(ctx, "", CapEditOwn); ok {
		t.Fatal("anonymous actor must hold no capabilities")
	}
}

func TestStaticProvider_GroupCapabilities(t *testing.T) {
	p := NewStaticProvider()
	p.SetGroups("m1", "moderator")
	ctx := context.Background()

	for _, capability := range []string{CapViewUnapproved, CapEditAny, CapDeleteAny, CapApprove} {
		ok, err := p.HasCapability(ctx, "m1", capability)
		if err != nil || !ok {
			t.Errorf("expected moderator to hold %s, got %v (%v)", capability, ok, err)
		}
	}
	if ok, _ := p.HasCapability(ctx, "u1", CapApprove); ok {
		t.Fatal("non-member must not hold moderator capabilities")
	}
}

func TestStaticProvider_CustomGrant(t *testing.T) {
	p := NewStaticProvider()
	p.Grant("curators", CapApprove)
	p.SetGroups("c1", "curators")

	ok, err := p.HasCapability(context.Background(), "c1", CapApprove)
	if err != nil || !ok {
		t.Fatalf("expected custom grant to apply, got %v (%v)", ok, err)
	}
}

func TestStaticProvider_GroupsOf(t *testing.T) {
	p := NewStaticProvider()
	p.SetGroups("u1", "trusted", "somegroup")

	groups, err := p.GroupsOf(context.Background(), "u1")
	if err != nil {
		t.Fatalf("groups: %v", err)
	}
	if len(groups) != 2 || groups[0] != "trusted" || groups[1] != "somegroup" {
		t.Fatalf("unexpected groups: %v", groups)
	}
}

func TestStaticProvider_Authors(t *testing.T) {
	p := NewStaticProvider()
	p.AddAuthor(Author{ID: "u1", Username: "alice"})

	out, err := p.Authors(context.Background(), []string{"u1", "ghost"})
	if err != nil {
		t.Fatalf("authors: %v", err)
	}
	if len(out) != 1 || out["u1"].Username != "alice" {
		t.Fatalf("unexpected directory result: %v", out)
	}
	if _, ok := out["ghost"]; ok {
		t.Fatal("unresolvable ids must be omitted, not zero-valued")
	}
}

// ─── claims provider ─────────────────────────────────────────────────────────

func TestClaimsProvider_AnswersForTokenSubjectOnly(t *testing.T) {
	p := NewClaimsProvider()
	ctx := auth.WithGroups(auth.WithUserID(context.Background(), "u1"), []string{"moderator"})

	if ok, _ := p.HasCapability(ctx, "u1", CapApprove); !ok {
		t.Fatal("expected token subject to hold moderator capabilities")
	}
	if ok, _ := p.HasCapability(ctx, "u1", CapEditOwn); !ok {
		t.Fatal("expected baseline capability for token subject")
	}
	if ok, _ := p.HasCapability(ctx, "u2", CapEditOwn); ok {
		t.Fatal("provider must not answer for other actors")
	}
	if ok, _ := p.HasCapability(context.Background(), "u1", CapEditOwn); ok {
		t.Fatal("provider must not answer without claims in context")
	}
}

func TestClaimsProvider_GroupsOf(t *testing.T) {
	p := NewClaimsProvider()
	ctx := auth.WithGroups(auth.WithUserID(context.Background(), "u1"), []string{"trusted"})

	groups, err := p.GroupsOf(ctx, "u1")
	if err != nil || len(groups) != 1 || groups[0] != "trusted" {
		t.Fatalf("unexpected groups: %v (%v)", groups, err)
	}
	other, _ := p.GroupsOf(ctx, "u2")
	if len(other) != 0 {
		t.Fatalf("expected no groups for other actors, got %v", other)
	}
}
