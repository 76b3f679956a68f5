package migrate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestSQLFilesOrderingAndFiltering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0002_members.up.sql", "select 2")
	writeFile(t, dir, "0001_init.up.sql", "select 1")
	writeFile(t, dir, "0001_init.down.sql", "select 0")
	writeFile(t, dir, "notes.txt", "skip me")

	files, err := sqlFiles(dir, ".up.sql")
	if err != nil {
		t.Fatalf("sqlFiles: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_init.up.sql" || files[1] != "0002_members.up.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestApplyRunsPendingMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_init.up.sql", "create table t (id int)")
	writeFile(t, dir, "0002_more.up.sql", "alter table t add c int")

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_history").
		WillReturnResult(sqlmock.NewResult(0, 0))
	// 0001 already recorded; only 0002 should run.
	mock.ExpectQuery("select name from schema_history").
		WithArgs(kindMigration).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_init.up.sql"))
	mock.ExpectBegin()
	mock.ExpectExec("alter table t add c int").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("insert into schema_history").
		WithArgs(kindMigration, "0002_more.up.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	m := NewManager(db, dir, dir)
	n, err := m.Apply(context.Background())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if n != 1 {
		t.Fatalf("applied = %d, want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRollbackRequiresDownFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "0001_init.up.sql", "create table t (id int)")

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("create table if not exists schema_history").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create table if not exists schema_history").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("select name from schema_history").
		WithArgs(kindMigration).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("0001_init.up.sql"))

	m := NewManager(db, dir, dir)
	if _, err := m.Rollback(context.Background()); err == nil {
		t.Fatal("expected error when the down file is missing")
	}
}
