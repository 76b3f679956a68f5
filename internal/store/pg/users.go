package pg

import (
	"context"
	"database/sql"
	"errors"

	"sociohub.org/internal/community"
)

type userStore struct {
	db *sql.DB
}

func (s *userStore) Create(ctx context.Context, u *community.User) error {
	_, err := s.db.ExecContext(ctx, `
		insert into users (id, name, email, password_hash, created_at)
		values ($1, $2, $3, $4, $5)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (s *userStore) Find(ctx context.Context, id community.UserID) (*community.User, error) {
	return s.one(ctx, `
		select id, name, email, password_hash, created_at
		from users
		where id = $1
	`, id)
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*community.User, error) {
	return s.one(ctx, `
		select id, name, email, password_hash, created_at
		from users
		where email = $1
	`, email)
}

func (s *userStore) one(ctx context.Context, query string, arg any) (*community.User, error) {
	var u community.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, community.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
