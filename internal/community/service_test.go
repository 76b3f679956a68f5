package community

import (
	"context"
	"testing"
)

// plainHasher is a reversible stand-in for bcrypt so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(hash, password string) bool    { return hash == "plain:"+password }

func newTestService(t *testing.T) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	return NewService(store, plainHasher{}), store
}

func seedRoles(t *testing.T, svc *Service) (admin, moderator *Role) {
	t.Helper()
	admin, err := svc.CreateRole(context.Background(), RoleAdmin)
	if err != nil {
		t.Fatalf("seed admin role: %v", err)
	}
	moderator, err = svc.CreateRole(context.Background(), RoleModerator)
	if err != nil {
		t.Fatalf("seed moderator role: %v", err)
	}
	return admin, moderator
}

func seedUser(t *testing.T, svc *Service, name, email string) *User {
	t.Helper()
	u, err := svc.Signup(context.Background(), name, email, "secret123")
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}
