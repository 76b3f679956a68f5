package community

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCreateCommunityBootstrap(t *testing.T) {
	svc, store := newTestService(t)
	admin, _ := seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")

	c, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team")
	if err != nil {
		t.Fatalf("create community: %v", err)
	}
	if c.Slug != "test-team" {
		t.Fatalf("slug = %q, want %q", c.Slug, "test-team")
	}
	if c.Owner != owner.ID {
		t.Fatalf("owner = %s, want %s", c.Owner, owner.ID)
	}

	m, err := store.Members().FindByCommunityUser(context.Background(), c.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner member row missing: %v", err)
	}
	if m.Role != admin.ID {
		t.Fatalf("owner member role = %s, want admin %s", m.Role, admin.ID)
	}
}

func TestCreateCommunityValidation(t *testing.T) {
	svc, _ := newTestService(t)
	seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")

	if _, err := svc.CreateCommunity(context.Background(), "", "Team"); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing owner: got %v, want ErrValidation", err)
	}
	if _, err := svc.CreateCommunity(context.Background(), owner.ID, "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank name: got %v, want ErrValidation", err)
	}
	if _, err := svc.CreateCommunity(context.Background(), owner.ID, "!!!"); !errors.Is(err, ErrValidation) {
		t.Fatalf("empty slug: got %v, want ErrValidation", err)
	}

	long := make([]byte, maxCommunityNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.CreateCommunity(context.Background(), owner.ID, string(long)); !errors.Is(err, ErrValidation) {
		t.Fatalf("oversized name: got %v, want ErrValidation", err)
	}
}

func TestCreateCommunitySlugConflict(t *testing.T) {
	svc, _ := newTestService(t)
	seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	other := seedUser(t, svc, "Other", "other@example.com")

	if _, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	// Distinct names collapsing to the same slug still collide.
	_, err := svc.CreateCommunity(context.Background(), other.ID, "  test   TEAM ")
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestCreateCommunityWithoutAdminRole(t *testing.T) {
	svc, _ := newTestService(t)
	owner := seedUser(t, svc, "Owner", "owner@example.com")

	_, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team")
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("got %v, want ErrInternal when the admin role is not seeded", err)
	}
}

func TestDeleteCommunityOwnerOnly(t *testing.T) {
	svc, store := newTestService(t)
	_, moderator := seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	guest := seedUser(t, svc, "Guest", "guest@example.com")

	c, err := svc.CreateCommunity(context.Background(), owner.ID, "Test Team")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddMember(context.Background(), owner.ID, c.ID, guest.ID, moderator.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	// A mere member, even a privileged one, may not delete.
	if err := svc.DeleteCommunity(context.Background(), guest.ID, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("guest delete: got %v, want ErrForbidden", err)
	}

	if err := svc.DeleteCommunity(context.Background(), owner.ID, c.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := store.Communities().Find(context.Background(), c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("community still present: %v", err)
	}
	// Membership rows go with the community.
	if _, err := store.Members().FindByCommunityUser(context.Background(), c.ID, guest.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("member row still present: %v", err)
	}

	if err := svc.DeleteCommunity(context.Background(), owner.ID, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestListCommunitiesPagination(t *testing.T) {
	svc, _ := newTestService(t)
	seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")

	for i := 0; i < PageSize+3; i++ {
		if _, err := svc.CreateCommunity(context.Background(), owner.ID, fmt.Sprintf("Team %02d", i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	first, meta, err := svc.ListCommunities(context.Background(), 1)
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if len(first) != PageSize {
		t.Fatalf("page 1 size = %d, want %d", len(first), PageSize)
	}
	if meta.Total != int64(PageSize+3) || meta.Pages != 2 || meta.Page != 1 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if first[0].Owner.ID != owner.ID || first[0].Owner.Name != "Owner" {
		t.Fatalf("owner not expanded: %+v", first[0].Owner)
	}

	second, meta, err := svc.ListCommunities(context.Background(), 2)
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if len(second) != 3 || meta.Page != 2 {
		t.Fatalf("page 2 size = %d meta %+v", len(second), meta)
	}

	// Newest first across the page boundary.
	if first[0].CreatedAt.Before(second[0].CreatedAt) && first[0].ID < second[0].ID {
		t.Fatalf("ordering broken: %s before %s", first[0].ID, second[0].ID)
	}
}

func TestOwnedAndJoinedCommunities(t *testing.T) {
	svc, _ := newTestService(t)
	_, moderator := seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	guest := seedUser(t, svc, "Guest", "guest@example.com")

	c1, err := svc.CreateCommunity(context.Background(), owner.ID, "Alpha")
	if err != nil {
		t.Fatalf("create alpha: %v", err)
	}
	if _, err := svc.CreateCommunity(context.Background(), guest.ID, "Beta"); err != nil {
		t.Fatalf("create beta: %v", err)
	}
	if _, err := svc.AddMember(context.Background(), owner.ID, c1.ID, guest.ID, moderator.ID); err != nil {
		t.Fatalf("add guest to alpha: %v", err)
	}

	owned, meta, err := svc.OwnedCommunities(context.Background(), guest.ID, 1)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if meta.Total != 1 || len(owned) != 1 || owned[0].Slug != "beta" {
		t.Fatalf("owned = %+v meta %+v", owned, meta)
	}

	joined, meta, err := svc.JoinedCommunities(context.Background(), guest.ID, 1)
	if err != nil {
		t.Fatalf("joined: %v", err)
	}
	if meta.Total != 2 || len(joined) != 2 {
		t.Fatalf("joined = %+v meta %+v", joined, meta)
	}
}

func TestListMembersExpands(t *testing.T) {
	svc, _ := newTestService(t)
	_, moderator := seedRoles(t, svc)
	owner := seedUser(t, svc, "Owner", "owner@example.com")
	guest := seedUser(t, svc, "Guest", "guest@example.com")

	c, err := svc.CreateCommunity(context.Background(), owner.ID, "Alpha")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddMember(context.Background(), owner.ID, c.ID, guest.ID, moderator.ID); err != nil {
		t.Fatalf("add member: %v", err)
	}

	members, meta, err := svc.ListMembers(context.Background(), c.ID, 1)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if meta.Total != 2 || len(members) != 2 {
		t.Fatalf("members = %d meta %+v", len(members), meta)
	}
	byUser := map[UserID]MemberView{}
	for _, m := range members {
		byUser[m.User.ID] = m
	}
	if byUser[owner.ID].Role.Name != RoleAdmin {
		t.Fatalf("owner role = %q, want %q", byUser[owner.ID].Role.Name, RoleAdmin)
	}
	if byUser[guest.ID].Role.Name != RoleModerator {
		t.Fatalf("guest role = %q, want %q", byUser[guest.ID].Role.Name, RoleModerator)
	}

	if _, _, err := svc.ListMembers(context.Background(), "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing community: got %v, want ErrNotFound", err)
	}
}
