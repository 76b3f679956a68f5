package community

import (
	"context"
	"errors"
	"fmt"

	"sociohub.org/internal/ids"
)

// AddMember assigns roleID to userID within communityID on behalf of actorID.
// Preconditions are checked in a fixed order so callers always see the same
// failure for the same state: validation, community exists, user exists, role
// exists, actor authorized (admins only), no duplicate membership.
func (s *Service) AddMember(ctx context.Context, actorID UserID, communityID CommunityID, userID UserID, roleID RoleID) (*Member, error) {
	if actorID == "" || communityID == "" || userID == "" || roleID == "" {
		return nil, fmt.Errorf("%w: community, user and role are required", ErrValidation)
	}
	if _, err := s.store.Communities().Find(ctx, communityID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users().Find(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.Roles().Find(ctx, roleID); err != nil {
		return nil, err
	}
	if !s.resolver.HasPermission(ctx, actorID, communityID, false) {
		return nil, fmt.Errorf("%w: adding members requires the admin role", ErrForbidden)
	}
	if _, err := s.store.Members().FindByCommunityUser(ctx, communityID, userID); err == nil {
		return nil, fmt.Errorf("%w: user is already a member", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	m := &Member{
		ID:        MemberID(ids.New()),
		Community: communityID,
		User:      userID,
		Role:      roleID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Members().Create(ctx, m); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: user is already a member", ErrConflict)
		}
		return nil, err
	}
	return m, nil
}

// RemoveMember deletes the membership row memberID from communityID on behalf
// of actorID. Admins and moderators may remove members; nobody, including the
// owner, may remove the owner's own membership.
func (s *Service) RemoveMember(ctx context.Context, actorID UserID, communityID CommunityID, memberID MemberID) (MemberID, error) {
	if actorID == "" || communityID == "" || memberID == "" {
		return "", fmt.Errorf("%w: community and member are required", ErrValidation)
	}
	m, err := s.store.Members().FindInCommunity(ctx, memberID, communityID)
	if err != nil {
		return "", err
	}
	if !s.resolver.HasPermission(ctx, actorID, communityID, true) {
		return "", fmt.Errorf("%w: removing members requires the admin or moderator role", ErrForbidden)
	}

	c, err := s.store.Communities().Find(ctx, communityID)
	if err != nil {
		return "", err
	}
	if m.User == c.Owner {
		return "", fmt.Errorf("%w: cannot remove the community owner", ErrForbidden)
	}

	if err := s.store.Members().Delete(ctx, m.ID); err != nil {
		return "", err
	}
	return m.ID, nil
}
