package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sociohub.org/internal/ids"
)

const maxCommunityNameLength = 128

// CreateCommunity creates a community owned by ownerID and bootstraps its
// membership: the owner is materialized as a member holding the admin role.
// Community and bootstrap member are persisted as one atomic unit, so no
// observable state ever shows a community without its admin member.
func (s *Service) CreateCommunity(ctx context.Context, ownerID UserID, name string) (*Community, error) {
	name = strings.TrimSpace(name)
	if ownerID == "" || name == "" {
		return nil, fmt.Errorf("%w: owner and name are required", ErrValidation)
	}
	if len(name) > maxCommunityNameLength {
		return nil, fmt.Errorf("%w: community name exceeds %d characters", ErrValidation, maxCommunityNameLength)
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, fmt.Errorf("%w: name yields an empty slug", ErrValidation)
	}

	if _, err := s.store.Communities().FindBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: community %q already exists", ErrConflict, slug)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// Resolve the admin role before any write. A catalog without it is a
	// deployment fault, not a caller mistake.
	adminRole, err := s.store.Roles().FindByName(ctx, RoleAdmin)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: role %q is not seeded", ErrInternal, RoleAdmin)
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	c := &Community{
		ID:        CommunityID(ids.New()),
		Name:      name,
		Slug:      slug,
		Owner:     ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := &Member{
		ID:        MemberID(ids.New()),
		Community: c.ID,
		User:      ownerID,
		Role:      adminRole.ID,
		CreatedAt: now,
	}
	if err := s.store.Communities().Create(ctx, c, owner); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: community %q already exists", ErrConflict, slug)
		}
		return nil, err
	}
	return c, nil
}

// DeleteCommunity removes a community and, through the store, its membership
// rows. Only the owner may delete; role-based admins may not.
func (s *Service) DeleteCommunity(ctx context.Context, actorID UserID, id CommunityID) error {
	if actorID == "" || id == "" {
		return fmt.Errorf("%w: community id is required", ErrValidation)
	}
	c, err := s.store.Communities().Find(ctx, id)
	if err != nil {
		return err
	}
	if c.Owner != actorID {
		return fmt.Errorf("%w: only the owner may delete a community", ErrForbidden)
	}
	return s.store.Communities().Delete(ctx, id)
}

// GetCommunity loads a community by id.
func (s *Service) GetCommunity(ctx context.Context, id CommunityID) (*Community, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: community id is required", ErrValidation)
	}
	return s.store.Communities().Find(ctx, id)
}

// ListCommunities returns one page of all communities, newest first, with
// owners expanded.
func (s *Service) ListCommunities(ctx context.Context, page int) ([]CommunityView, PageMeta, error) {
	page, offset := normalizePage(page)

	total, err := s.store.Communities().Count(ctx)
	if err != nil {
		return nil, PageMeta{}, err
	}
	cs, err := s.store.Communities().List(ctx, offset, PageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	views, err := s.expandCommunities(ctx, cs)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return views, pageMeta(total, page), nil
}

// OwnedCommunities returns one page of communities owned by userID.
func (s *Service) OwnedCommunities(ctx context.Context, userID UserID, page int) ([]CommunityView, PageMeta, error) {
	if userID == "" {
		return nil, PageMeta{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	page, offset := normalizePage(page)

	total, err := s.store.Communities().CountByOwner(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	cs, err := s.store.Communities().ListByOwner(ctx, userID, offset, PageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	views, err := s.expandCommunities(ctx, cs)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return views, pageMeta(total, page), nil
}

// JoinedCommunities returns one page of communities userID is a member of,
// including ones the user owns.
func (s *Service) JoinedCommunities(ctx context.Context, userID UserID, page int) ([]CommunityView, PageMeta, error) {
	if userID == "" {
		return nil, PageMeta{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	page, offset := normalizePage(page)

	total, err := s.store.Communities().CountByMember(ctx, userID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	cs, err := s.store.Communities().ListByMember(ctx, userID, offset, PageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	views, err := s.expandCommunities(ctx, cs)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return views, pageMeta(total, page), nil
}

// ListMembers returns one page of a community's members, newest first, with
// users and roles expanded. The community must exist.
func (s *Service) ListMembers(ctx context.Context, communityID CommunityID, page int) ([]MemberView, PageMeta, error) {
	if communityID == "" {
		return nil, PageMeta{}, fmt.Errorf("%w: community id is required", ErrValidation)
	}
	if _, err := s.store.Communities().Find(ctx, communityID); err != nil {
		return nil, PageMeta{}, err
	}
	page, offset := normalizePage(page)

	total, err := s.store.Members().CountByCommunity(ctx, communityID)
	if err != nil {
		return nil, PageMeta{}, err
	}
	ms, err := s.store.Members().ListByCommunity(ctx, communityID, offset, PageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}

	users := map[UserID]UserSummary{}
	roles := map[RoleID]RoleSummary{}
	views := make([]MemberView, 0, len(ms))
	for _, m := range ms {
		u, ok := users[m.User]
		if !ok {
			full, err := s.store.Users().Find(ctx, m.User)
			if err != nil {
				return nil, PageMeta{}, err
			}
			u = UserSummary{ID: full.ID, Name: full.Name}
			users[m.User] = u
		}
		r, ok := roles[m.Role]
		if !ok {
			full, err := s.store.Roles().Find(ctx, m.Role)
			if err != nil {
				return nil, PageMeta{}, err
			}
			r = RoleSummary{ID: full.ID, Name: full.Name}
			roles[m.Role] = r
		}
		views = append(views, MemberView{
			ID:        m.ID,
			Community: m.Community,
			User:      u,
			Role:      r,
			CreatedAt: m.CreatedAt,
		})
	}
	return views, pageMeta(total, page), nil
}

func (s *Service) expandCommunities(ctx context.Context, cs []Community) ([]CommunityView, error) {
	owners := map[UserID]UserSummary{}
	views := make([]CommunityView, 0, len(cs))
	for _, c := range cs {
		owner, ok := owners[c.Owner]
		if !ok {
			u, err := s.store.Users().Find(ctx, c.Owner)
			if err != nil {
				return nil, err
			}
			owner = UserSummary{ID: u.ID, Name: u.Name}
			owners[c.Owner] = owner
		}
		views = append(views, CommunityView{
			ID:        c.ID,
			Name:      c.Name,
			Slug:      c.Slug,
			Owner:     owner,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return views, nil
}
