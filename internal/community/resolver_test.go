package community

import (
	"context"
	"errors"
	"testing"
)

func TestResolverOwnerBypass(t *testing.T) {
	svc, store := newTestService(t)
	seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	c, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team")
	if err != nil {
		t.Fatalf("create community: %v", err)
	}

	r := NewResolver(store)
	if !r.HasPermission(context.Background(), owner.ID, c.ID, false) {
		t.Fatal("owner must always be authorized")
	}
}

func TestResolverRoles(t *testing.T) {
	svc, store := newTestService(t)
	_, moderator := seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	mod := seedUser(t, svc, "Mod", "mod@example.com")
	plain := seedUser(t, svc, "Plain", "plain@example.com")

	c, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team")
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	if _, err := svc.AddMember(context.Background(), owner.ID, c.ID, mod.ID, moderator.ID); err != nil {
		t.Fatalf("add moderator: %v", err)
	}

	r := NewResolver(store)
	if r.HasPermission(context.Background(), mod.ID, c.ID, false) {
		t.Fatal("moderator must not pass an admin-only check")
	}
	if !r.HasPermission(context.Background(), mod.ID, c.ID, true) {
		t.Fatal("moderator must pass when moderators are allowed")
	}
	if r.HasPermission(context.Background(), plain.ID, c.ID, true) {
		t.Fatal("non-member must never be authorized")
	}
}

func TestResolverMissingCommunity(t *testing.T) {
	_, store := newTestService(t)
	r := NewResolver(store)
	if r.HasPermission(context.Background(), "u1", "missing", true) {
		t.Fatal("missing community must deny")
	}
	if r.HasPermission(context.Background(), "", "", true) {
		t.Fatal("blank identifiers must deny")
	}
}

func TestResolverMissingAdminRoleDegrades(t *testing.T) {
	// No roles seeded at all: the allowed set is empty, so only the owner
	// passes; no lookup error escapes.
	store := NewMemStore()

	c := &Community{ID: "c1", Name: "Team", Slug: "team", Owner: "owner"}
	ownerMember := &Member{ID: "m1", Community: "c1", User: "owner", Role: "r-missing"}
	if err := store.Communities().Create(context.Background(), c, ownerMember); err != nil {
		t.Fatalf("seed community: %v", err)
	}

	r := NewResolver(store)
	if !r.HasPermission(context.Background(), "owner", "c1", false) {
		t.Fatal("owner bypass must not depend on the role catalog")
	}
	if r.HasPermission(context.Background(), "someone", "c1", true) {
		t.Fatal("without seeded roles nobody but the owner is authorized")
	}
}

// failingStore wraps a Store and makes community lookups fail, exercising the
// fail-closed path.
type failingStore struct {
	Store
}

type failingCommunities struct {
	CommunityStore
}

func (failingStore) Communities() CommunityStore { return failingCommunities{} }

func (failingCommunities) Find(context.Context, CommunityID) (*Community, error) {
	return nil, errors.New("backend unavailable")
}

func TestResolverFailsClosed(t *testing.T) {
	r := NewResolver(failingStore{Store: NewMemStore()})
	if r.HasPermission(context.Background(), "u1", "c1", true) {
		t.Fatal("store failure must deny, not grant")
	}
}
