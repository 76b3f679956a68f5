package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sociohub.org/internal/ids"
)

// CreateRole adds a role to the catalog. Role names are unique.
func (s *Service) CreateRole(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name is required", ErrValidation)
	}
	if len(name) > 64 {
		return nil, fmt.Errorf("%w: role name exceeds 64 characters", ErrValidation)
	}

	if _, err := s.store.Roles().FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: role %q already exists", ErrConflict, name)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	role := &Role{
		ID:        RoleID(ids.New()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Roles().Create(ctx, role); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: role %q already exists", ErrConflict, name)
		}
		return nil, err
	}
	return role, nil
}

// ListRoles returns one page of the role catalog, newest first.
func (s *Service) ListRoles(ctx context.Context, page int) ([]Role, PageMeta, error) {
	page, offset := normalizePage(page)

	total, err := s.store.Roles().Count(ctx)
	if err != nil {
		return nil, PageMeta{}, err
	}
	roles, err := s.store.Roles().List(ctx, offset, PageSize)
	if err != nil {
		return nil, PageMeta{}, err
	}
	return roles, pageMeta(total, page), nil
}
