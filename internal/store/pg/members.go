package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"sociohub.org/internal/community"
)

type memberStore struct {
	db *sql.DB
}

const memberColumns = `id, community_id, user_id, role_id, created_at`

func (s *memberStore) Create(ctx context.Context, m *community.Member) error {
	_, err := s.db.ExecContext(ctx, `
		insert into members (id, community_id, user_id, role_id, created_at)
		values ($1, $2, $3, $4, $5)
	`, m.ID, m.Community, m.User, m.Role, m.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *memberStore) Find(ctx context.Context, id community.MemberID) (*community.Member, error) {
	return s.one(ctx, `select `+memberColumns+` from members where id = $1`, id)
}

func (s *memberStore) FindInCommunity(ctx context.Context, id community.MemberID, c community.CommunityID) (*community.Member, error) {
	return s.one(ctx, `select `+memberColumns+` from members where id = $1 and community_id = $2`, id, c)
}

func (s *memberStore) FindByCommunityUser(ctx context.Context, c community.CommunityID, u community.UserID) (*community.Member, error) {
	return s.one(ctx, `select `+memberColumns+` from members where community_id = $1 and user_id = $2`, c, u)
}

func (s *memberStore) HasRole(ctx context.Context, c community.CommunityID, u community.UserID, roles []community.RoleID) (bool, error) {
	ids := make([]string, len(roles))
	for i, r := range roles {
		ids[i] = string(r)
	}
	var n int64
	err := s.db.QueryRowContext(ctx, `
		select count(*)
		from members
		where community_id = $1 and user_id = $2 and role_id = any(string_to_array($3, ','))
	`, c, u, strings.Join(ids, ",")).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *memberStore) ListByCommunity(ctx context.Context, c community.CommunityID, offset, limit int) ([]community.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+memberColumns+`
		from members
		where community_id = $1
		order by created_at desc, id desc
		limit $2 offset $3
	`, c, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ms := []community.Member{}
	for rows.Next() {
		var m community.Member
		if err := rows.Scan(&m.ID, &m.Community, &m.User, &m.Role, &m.CreatedAt); err != nil {
			return nil, err
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ms, nil
}

func (s *memberStore) CountByCommunity(ctx context.Context, c community.CommunityID) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `select count(*) from members where community_id = $1`, c).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *memberStore) Delete(ctx context.Context, id community.MemberID) error {
	res, err := s.db.ExecContext(ctx, `delete from members where id = $1`, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return community.ErrNotFound
	}
	return nil
}

func (s *memberStore) one(ctx context.Context, query string, args ...any) (*community.Member, error) {
	var m community.Member
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&m.ID, &m.Community, &m.User, &m.Role, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, community.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
