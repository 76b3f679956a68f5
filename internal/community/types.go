// Package community implements the community-management core: identities,
// the role catalog, communities with a single owning user, and membership
// with role-based authorization over privileged actions.
package community

import "time"

// Role names the authorization model recognizes. Authorization is based on
// role identity by name, not on an explicit permission set.
const (
	RoleAdmin     = "Community Admin"
	RoleModerator = "Community Moderator"
)

// Typed identifiers. The core depends on their uniqueness and opacity only;
// generation is delegated to the ids package (sortable ULIDs).
type (
	UserID      string
	RoleID      string
	CommunityID string
	MemberID    string
)

// User is an account identity. The password hash never leaves the core.
type User struct {
	ID           UserID    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Role is a named authorization level assignable to members.
type Role struct {
	ID        RoleID    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Community is a named group with exactly one owning user. The owner is
// implicitly an administrator; a matching admin Member row is materialized at
// creation and the two representations must agree.
type Community struct {
	ID        CommunityID `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Owner     UserID      `json:"owner"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Member assigns a role to a user within a community. At most one Member row
// exists per (community, user) pair; the store enforces that.
type Member struct {
	ID        MemberID    `json:"id"`
	Community CommunityID `json:"community"`
	User      UserID      `json:"user"`
	Role      RoleID      `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserSummary is the reduced identity shape embedded in listing responses.
type UserSummary struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// RoleSummary is the reduced role shape embedded in listing responses.
type RoleSummary struct {
	ID   RoleID `json:"id"`
	Name string `json:"name"`
}

// CommunityView is a community with its owner expanded.
type CommunityView struct {
	ID        CommunityID `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	Owner     UserSummary `json:"owner"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// MemberView is a membership row with user and role expanded.
type MemberView struct {
	ID        MemberID    `json:"id"`
	Community CommunityID `json:"community"`
	User      UserSummary `json:"user"`
	Role      RoleSummary `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

// PageMeta describes a page of a listing.
type PageMeta struct {
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
	Page  int   `json:"page"`
}

// PageSize is the fixed listing page size.
const PageSize = 10

func pageMeta(total int64, page int) PageMeta {
	pages := int((total + PageSize - 1) / PageSize)
	return PageMeta{Total: total, Pages: pages, Page: page}
}

func normalizePage(page int) (int, int) {
	if page <= 0 {
		page = 1
	}
	return page, (page - 1) * PageSize
}
