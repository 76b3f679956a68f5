package pg

import (
	"context"
	"database/sql"
	"errors"

	"sociohub.org/internal/community"
)

type roleStore struct {
	db *sql.DB
}

func (s *roleStore) Create(ctx context.Context, role *community.Role) error {
	_, err := s.db.ExecContext(ctx, `
		insert into roles (id, name, created_at, updated_at)
		values ($1, $2, $3, $4)
	`, role.ID, role.Name, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *roleStore) Find(ctx context.Context, id community.RoleID) (*community.Role, error) {
	return s.one(ctx, `
		select id, name, created_at, updated_at
		from roles
		where id = $1
	`, id)
}

func (s *roleStore) FindByName(ctx context.Context, name string) (*community.Role, error) {
	return s.one(ctx, `
		select id, name, created_at, updated_at
		from roles
		where name = $1
	`, name)
}

func (s *roleStore) List(ctx context.Context, offset, limit int) ([]community.Role, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, name, created_at, updated_at
		from roles
		order by created_at desc, id desc
		limit $1 offset $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := []community.Role{}
	for rows.Next() {
		var r community.Role
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *roleStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `select count(*) from roles`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *roleStore) one(ctx context.Context, query string, arg any) (*community.Role, error) {
	var r community.Role
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&r.ID, &r.Name, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, community.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
