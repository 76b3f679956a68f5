// Package pg implements community.Store on PostgreSQL via database/sql and
// the pgx stdlib driver. Uniqueness and referential integrity are enforced by
// the schema; constraint violations are mapped onto the core's sentinel
// errors.
package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sociohub.org/internal/community"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

type Store struct {
	db *sql.DB
}

var _ community.Store = (*Store)(nil)

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users() community.UserStore            { return &userStore{db: s.db} }
func (s *Store) Roles() community.RoleStore            { return &roleStore{db: s.db} }
func (s *Store) Communities() community.CommunityStore { return &communityStore{db: s.db} }
func (s *Store) Members() community.MemberStore        { return &memberStore{db: s.db} }

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// mapWriteError converts constraint violations into sentinel errors: unique
// violations become ErrConflict, foreign-key violations mean a referenced row
// is gone and surface as ErrNotFound.
func mapWriteError(err error) error {
	if pgErr, ok := maybePgError(err); ok {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return community.ErrConflict
		case pgErrForeignKeyViolation:
			return community.ErrNotFound
		}
	}
	return err
}
