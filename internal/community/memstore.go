package community

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store used by tests and as a fallback when no
// database is configured. A single mutex guards all tables, which keeps the
// community-plus-owner bootstrap trivially atomic.
type MemStore struct {
	mu sync.RWMutex

	users        map[UserID]User
	usersByEmail map[string]UserID

	roles       map[RoleID]Role
	rolesByName map[string]RoleID

	communities map[CommunityID]Community
	bySlug      map[string]CommunityID

	members     map[MemberID]Member
	memberByKey map[CommunityID]map[UserID]MemberID
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		users:        make(map[UserID]User),
		usersByEmail: make(map[string]UserID),
		roles:        make(map[RoleID]Role),
		rolesByName:  make(map[string]RoleID),
		communities:  make(map[CommunityID]Community),
		bySlug:       make(map[string]CommunityID),
		members:      make(map[MemberID]Member),
		memberByKey:  make(map[CommunityID]map[UserID]MemberID),
	}
}

func (s *MemStore) Users() UserStore            { return (*memUsers)(s) }
func (s *MemStore) Roles() RoleStore            { return (*memRoles)(s) }
func (s *MemStore) Communities() CommunityStore { return (*memCommunities)(s) }
func (s *MemStore) Members() MemberStore        { return (*memMembers)(s) }

var _ Store = (*MemStore)(nil)

type memUsers MemStore

func (s *memUsers) Create(_ context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usersByEmail[u.Email]; ok {
		return fmt.Errorf("%w: email %q", ErrConflict, u.Email)
	}
	s.users[u.ID] = *u
	s.usersByEmail[u.Email] = u.ID
	return nil
}

func (s *memUsers) Find(_ context.Context, id UserID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return &u, nil
}

func (s *memUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: email %q", ErrNotFound, email)
	}
	u := s.users[id]
	return &u, nil
}

type memRoles MemStore

func (s *memRoles) Create(_ context.Context, role *Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rolesByName[role.Name]; ok {
		return fmt.Errorf("%w: role %q", ErrConflict, role.Name)
	}
	s.roles[role.ID] = *role
	s.rolesByName[role.Name] = role.ID
	return nil
}

func (s *memRoles) Find(_ context.Context, id RoleID) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, fmt.Errorf("%w: role %s", ErrNotFound, id)
	}
	return &r, nil
}

func (s *memRoles) FindByName(_ context.Context, name string) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.rolesByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: role %q", ErrNotFound, name)
	}
	r := s.roles[id]
	return &r, nil
}

func (s *memRoles) List(_ context.Context, offset, limit int) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		all = append(all, r)
	}
	sortNewestFirst(all, func(r Role) string { return string(r.ID) })
	return slicePage(all, offset, limit), nil
}

func (s *memRoles) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.roles)), nil
}

type memCommunities MemStore

func (s *memCommunities) Create(_ context.Context, c *Community, owner *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bySlug[c.Slug]; ok {
		return fmt.Errorf("%w: slug %q", ErrConflict, c.Slug)
	}
	s.communities[c.ID] = *c
	s.bySlug[c.Slug] = c.ID
	s.members[owner.ID] = *owner
	byUser := s.memberByKey[c.ID]
	if byUser == nil {
		byUser = make(map[UserID]MemberID)
		s.memberByKey[c.ID] = byUser
	}
	byUser[owner.User] = owner.ID
	return nil
}

func (s *memCommunities) Find(_ context.Context, id CommunityID) (*Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communities[id]
	if !ok {
		return nil, fmt.Errorf("%w: community %s", ErrNotFound, id)
	}
	return &c, nil
}

func (s *memCommunities) FindBySlug(_ context.Context, slug string) (*Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: slug %q", ErrNotFound, slug)
	}
	c := s.communities[id]
	return &c, nil
}

func (s *memCommunities) List(_ context.Context, offset, limit int) ([]Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slicePage(s.sortedLocked(func(Community) bool { return true }), offset, limit), nil
}

func (s *memCommunities) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.communities)), nil
}

func (s *memCommunities) ListByOwner(_ context.Context, owner UserID, offset, limit int) ([]Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slicePage(s.sortedLocked(func(c Community) bool { return c.Owner == owner }), offset, limit), nil
}

func (s *memCommunities) CountByOwner(_ context.Context, owner UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.sortedLocked(func(c Community) bool { return c.Owner == owner }))), nil
}

func (s *memCommunities) ListByMember(_ context.Context, user UserID, offset, limit int) ([]Community, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slicePage(s.sortedLocked(func(c Community) bool {
		_, ok := s.memberByKey[c.ID][user]
		return ok
	}), offset, limit), nil
}

func (s *memCommunities) CountByMember(_ context.Context, user UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.sortedLocked(func(c Community) bool {
		_, ok := s.memberByKey[c.ID][user]
		return ok
	}))), nil
}

func (s *memCommunities) Delete(_ context.Context, id CommunityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communities[id]
	if !ok {
		return fmt.Errorf("%w: community %s", ErrNotFound, id)
	}
	delete(s.communities, id)
	delete(s.bySlug, c.Slug)
	for _, mid := range s.memberByKey[id] {
		delete(s.members, mid)
	}
	delete(s.memberByKey, id)
	return nil
}

func (s *memCommunities) sortedLocked(keep func(Community) bool) []Community {
	out := make([]Community, 0, len(s.communities))
	for _, c := range s.communities {
		if keep(c) {
			out = append(out, c)
		}
	}
	sortNewestFirst(out, func(c Community) string { return string(c.ID) })
	return out
}

type memMembers MemStore

func (s *memMembers) Create(_ context.Context, m *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser := s.memberByKey[m.Community]
	if byUser == nil {
		byUser = make(map[UserID]MemberID)
		s.memberByKey[m.Community] = byUser
	}
	if _, ok := byUser[m.User]; ok {
		return fmt.Errorf("%w: member %s/%s", ErrConflict, m.Community, m.User)
	}
	s.members[m.ID] = *m
	byUser[m.User] = m.ID
	return nil
}

func (s *memMembers) Find(_ context.Context, id MemberID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return nil, fmt.Errorf("%w: member %s", ErrNotFound, id)
	}
	return &m, nil
}

func (s *memMembers) FindInCommunity(_ context.Context, id MemberID, c CommunityID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok || m.Community != c {
		return nil, fmt.Errorf("%w: member %s in community %s", ErrNotFound, id, c)
	}
	return &m, nil
}

func (s *memMembers) FindByCommunityUser(_ context.Context, c CommunityID, u UserID) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.memberByKey[c][u]
	if !ok {
		return nil, fmt.Errorf("%w: member %s/%s", ErrNotFound, c, u)
	}
	m := s.members[id]
	return &m, nil
}

func (s *memMembers) HasRole(_ context.Context, c CommunityID, u UserID, roles []RoleID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.memberByKey[c][u]
	if !ok {
		return false, nil
	}
	m := s.members[id]
	for _, r := range roles {
		if m.Role == r {
			return true, nil
		}
	}
	return false, nil
}

func (s *memMembers) ListByCommunity(_ context.Context, c CommunityID, offset, limit int) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Member, 0, len(s.memberByKey[c]))
	for _, id := range s.memberByKey[c] {
		out = append(out, s.members[id])
	}
	sortNewestFirst(out, func(m Member) string { return string(m.ID) })
	return slicePage(out, offset, limit), nil
}

func (s *memMembers) CountByCommunity(_ context.Context, c CommunityID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.memberByKey[c])), nil
}

func (s *memMembers) Delete(_ context.Context, id MemberID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return fmt.Errorf("%w: member %s", ErrNotFound, id)
	}
	delete(s.members, id)
	delete(s.memberByKey[m.Community], m.User)
	return nil
}

// sortNewestFirst orders rows by id descending. Identifiers are sortable
// ULIDs, so id order equals creation order.
func sortNewestFirst[T any](rows []T, id func(T) string) {
	sort.Slice(rows, func(i, j int) bool { return id(rows[i]) > id(rows[j]) })
}

func slicePage[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}
