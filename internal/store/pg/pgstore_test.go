package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"sociohub.org/internal/community"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("insert into users").
		WithArgs("u1", "Ann", "ann@example.com", "hash", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.Users().Create(context.Background(), &community.User{
		ID: "u1", Name: "Ann", Email: "ann@example.com", PasswordHash: "hash", CreatedAt: time.Now(),
	})
	if !errors.Is(err, community.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserFindNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("select id, name, email, password_hash, created_at.*from users").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at"}))

	_, err := store.Users().Find(context.Background(), "missing")
	if !errors.Is(err, community.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRoleFindByName(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	mock.ExpectQuery("select id, name, created_at, updated_at.*from roles").
		WithArgs(community.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow("r1", community.RoleAdmin, now, now))

	role, err := store.Roles().FindByName(context.Background(), community.RoleAdmin)
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if role.ID != "r1" || role.Name != community.RoleAdmin {
		t.Fatalf("unexpected role %+v", role)
	}
}

func TestCommunityCreateIsTransactional(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("insert into communities").
		WithArgs("c1", "Test Team", "test-team", "u1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into members").
		WithArgs("m1", "c1", "u1", "r1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Communities().Create(context.Background(),
		&community.Community{ID: "c1", Name: "Test Team", Slug: "test-team", Owner: "u1", CreatedAt: now, UpdatedAt: now},
		&community.Member{ID: "m1", Community: "c1", User: "u1", Role: "r1", CreatedAt: now})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommunityCreateRollsBackOnMemberFailure(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("insert into communities").
		WithArgs("c1", "Test Team", "test-team", "u1", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into members").
		WithArgs("m1", "c1", "u1", "r1", now).
		WillReturnError(&pgconn.PgError{Code: pgErrForeignKeyViolation})
	mock.ExpectRollback()

	err := store.Communities().Create(context.Background(),
		&community.Community{ID: "c1", Name: "Test Team", Slug: "test-team", Owner: "u1", CreatedAt: now, UpdatedAt: now},
		&community.Member{ID: "m1", Community: "c1", User: "u1", Role: "r1", CreatedAt: now})
	if !errors.Is(err, community.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCommunityCreateSlugConflict(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectExec("insert into communities").
		WithArgs("c1", "Test Team", "test-team", "u1", now, now).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})
	mock.ExpectRollback()

	err := store.Communities().Create(context.Background(),
		&community.Community{ID: "c1", Name: "Test Team", Slug: "test-team", Owner: "u1", CreatedAt: now, UpdatedAt: now},
		&community.Member{ID: "m1", Community: "c1", User: "u1", Role: "r1", CreatedAt: now})
	if !errors.Is(err, community.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestMemberCreateDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("insert into members").
		WithArgs("m2", "c1", "u2", "r2", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation})

	err := store.Members().Create(context.Background(), &community.Member{
		ID: "m2", Community: "c1", User: "u2", Role: "r2", CreatedAt: time.Now(),
	})
	if !errors.Is(err, community.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestMemberDeleteNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec("delete from members").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Members().Delete(context.Background(), "missing")
	if !errors.Is(err, community.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMemberHasRole(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("select count\\(\\*\\).*from members").
		WithArgs("c1", "u1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := store.Members().HasRole(context.Background(), "c1", "u1", []community.RoleID{"r1", "r2"})
	if err != nil {
		t.Fatalf("HasRole: %v", err)
	}
	if !ok {
		t.Fatal("expected role match")
	}
}
