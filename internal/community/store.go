package community

import "context"

// Store describes persistence required by the community core. Implementations
// must enforce the uniqueness constraints themselves (unique email, unique
// role name, unique slug, unique (community, user) member pair) and report
// violations as ErrConflict; pre-checks in the service layer are advisory
// only and do not protect against concurrent writers.
type Store interface {
	Users() UserStore
	Roles() RoleStore
	Communities() CommunityStore
	Members() MemberStore
}

// UserStore manages account identities.
type UserStore interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// RoleStore manages the role catalog.
type RoleStore interface {
	Create(ctx context.Context, role *Role) error
	Find(ctx context.Context, id RoleID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context, offset, limit int) ([]Role, error)
	Count(ctx context.Context) (int64, error)
}

// CommunityStore manages communities. Create persists the community together
// with the owner's bootstrap member row as a single atomic unit.
type CommunityStore interface {
	Create(ctx context.Context, c *Community, owner *Member) error
	Find(ctx context.Context, id CommunityID) (*Community, error)
	FindBySlug(ctx context.Context, slug string) (*Community, error)
	List(ctx context.Context, offset, limit int) ([]Community, error)
	Count(ctx context.Context) (int64, error)
	ListByOwner(ctx context.Context, owner UserID, offset, limit int) ([]Community, error)
	CountByOwner(ctx context.Context, owner UserID) (int64, error)
	ListByMember(ctx context.Context, user UserID, offset, limit int) ([]Community, error)
	CountByMember(ctx context.Context, user UserID) (int64, error)
	Delete(ctx context.Context, id CommunityID) error
}

// MemberStore manages membership rows.
type MemberStore interface {
	Create(ctx context.Context, m *Member) error
	Find(ctx context.Context, id MemberID) (*Member, error)
	FindInCommunity(ctx context.Context, id MemberID, c CommunityID) (*Member, error)
	FindByCommunityUser(ctx context.Context, c CommunityID, u UserID) (*Member, error)
	HasRole(ctx context.Context, c CommunityID, u UserID, roles []RoleID) (bool, error)
	ListByCommunity(ctx context.Context, c CommunityID, offset, limit int) ([]Member, error)
	CountByCommunity(ctx context.Context, c CommunityID) (int64, error)
	Delete(ctx context.Context, id MemberID) error
}
