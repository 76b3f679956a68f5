package pg

import (
	"context"
	"database/sql"
	"errors"

	"sociohub.org/internal/community"
)

type communityStore struct {
	db *sql.DB
}

const communityColumns = `id, name, slug, owner_id, created_at, updated_at`

// Create inserts the community and its owner's member row in one transaction,
// so the bootstrap is all-or-nothing.
func (s *communityStore) Create(ctx context.Context, c *community.Community, owner *community.Member) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into communities (id, name, slug, owner_id, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.Slug, c.Owner, c.CreatedAt, c.UpdatedAt); err != nil {
		return mapWriteError(err)
	}
	if _, err := tx.ExecContext(ctx, `
		insert into members (id, community_id, user_id, role_id, created_at)
		values ($1, $2, $3, $4, $5)
	`, owner.ID, owner.Community, owner.User, owner.Role, owner.CreatedAt); err != nil {
		return mapWriteError(err)
	}
	return tx.Commit()
}

func (s *communityStore) Find(ctx context.Context, id community.CommunityID) (*community.Community, error) {
	return s.one(ctx, `select `+communityColumns+` from communities where id = $1`, id)
}

func (s *communityStore) FindBySlug(ctx context.Context, slug string) (*community.Community, error) {
	return s.one(ctx, `select `+communityColumns+` from communities where slug = $1`, slug)
}

func (s *communityStore) List(ctx context.Context, offset, limit int) ([]community.Community, error) {
	return s.many(ctx, `
		select `+communityColumns+`
		from communities
		order by created_at desc, id desc
		limit $1 offset $2
	`, limit, offset)
}

func (s *communityStore) Count(ctx context.Context) (int64, error) {
	return s.count(ctx, `select count(*) from communities`)
}

func (s *communityStore) ListByOwner(ctx context.Context, owner community.UserID, offset, limit int) ([]community.Community, error) {
	return s.many(ctx, `
		select `+communityColumns+`
		from communities
		where owner_id = $1
		order by created_at desc, id desc
		limit $2 offset $3
	`, owner, limit, offset)
}

func (s *communityStore) CountByOwner(ctx context.Context, owner community.UserID) (int64, error) {
	return s.count(ctx, `select count(*) from communities where owner_id = $1`, owner)
}

func (s *communityStore) ListByMember(ctx context.Context, user community.UserID, offset, limit int) ([]community.Community, error) {
	return s.many(ctx, `
		select c.id, c.name, c.slug, c.owner_id, c.created_at, c.updated_at
		from communities c
		join members m on m.community_id = c.id
		where m.user_id = $1
		order by c.created_at desc, c.id desc
		limit $2 offset $3
	`, user, limit, offset)
}

func (s *communityStore) CountByMember(ctx context.Context, user community.UserID) (int64, error) {
	return s.count(ctx, `
		select count(*)
		from communities c
		join members m on m.community_id = c.id
		where m.user_id = $1
	`, user)
}

func (s *communityStore) Delete(ctx context.Context, id community.CommunityID) error {
	res, err := s.db.ExecContext(ctx, `delete from communities where id = $1`, id)
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

func (s *communityStore) one(ctx context.Context, query string, arg any) (*community.Community, error) {
	var c community.Community
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, community.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *communityStore) many(ctx context.Context, query string, args ...any) ([]community.Community, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cs := []community.Community{}
	for rows.Next() {
		var c community.Community
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *communityStore) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
