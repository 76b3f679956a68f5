package community

import (
	"context"
	"errors"
)

// Resolver decides whether a user may perform a privileged membership action
// on a community. It is deliberately fail closed: any internal failure during
// resolution answers "not authorized" instead of surfacing an error. That
// pattern is confined to this type; the service layer surfaces typed errors.
type Resolver struct {
	store Store
}

// NewResolver constructs a Resolver over the given store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// HasPermission reports whether userID may manage members of communityID.
// The community owner is always authorized, regardless of member rows.
// Otherwise the user must hold the admin role, or the moderator role when
// moderatorAllowed is set.
func (r *Resolver) HasPermission(ctx context.Context, userID UserID, communityID CommunityID, moderatorAllowed bool) bool {
	ok, err := r.resolve(ctx, userID, communityID, moderatorAllowed)
	if err != nil {
		return false
	}
	return ok
}

func (r *Resolver) resolve(ctx context.Context, userID UserID, communityID CommunityID, moderatorAllowed bool) (bool, error) {
	if userID == "" || communityID == "" {
		return false, nil
	}

	c, err := r.store.Communities().Find(ctx, communityID)
	if err != nil {
		return false, err
	}
	if c.Owner == userID {
		return true, nil
	}

	allowed, err := r.allowedRoles(ctx, moderatorAllowed)
	if err != nil {
		return false, err
	}
	if len(allowed) == 0 {
		return false, nil
	}
	return r.store.Members().HasRole(ctx, communityID, userID, allowed)
}

// allowedRoles resolves privileged role names to identifiers. A missing role
// degrades the allowed set rather than failing the check: a catalog without
// the admin role simply grants nobody admin rights.
func (r *Resolver) allowedRoles(ctx context.Context, moderatorAllowed bool) ([]RoleID, error) {
	names := []string{RoleAdmin}
	if moderatorAllowed {
		names = append(names, RoleModerator)
	}

	allowed := make([]RoleID, 0, len(names))
	for _, name := range names {
		role, err := r.store.Roles().FindByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		allowed = append(allowed, role.ID)
	}
	return allowed, nil
}
