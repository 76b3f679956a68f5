// Package migrate runs SQL migrations and seed files from disk against a
// PostgreSQL database. Bookkeeping lives in a single history table with a
// kind column, so one query answers both "which migrations ran" and "which
// seeds ran".
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const defaultHistoryTable = "schema_history"

const (
	kindMigration = "migration"
	kindSeed      = "seed"
)

// Manager executes SQL migrations and seed files stored on disk.
type Manager struct {
	db            *sql.DB
	migrationsDir string
	seedsDir      string
	historyTable  string
}

// Option configures Manager.
type Option func(*Manager)

// WithHistoryTable overrides the default bookkeeping table.
func WithHistoryTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.historyTable = name
		}
	}
}

// NewManager constructs a Manager over an open database handle.
func NewManager(db *sql.DB, migrationsDir, seedsDir string, opts ...Option) *Manager {
	m := &Manager{
		db:            db,
		migrationsDir: migrationsDir,
		seedsDir:      seedsDir,
		historyTable:  defaultHistoryTable,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply runs all pending .up.sql migrations in lexical order. Each file runs
// in its own transaction together with its history record.
func (m *Manager) Apply(ctx context.Context) (int, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx, kindMigration)
	if err != nil {
		return 0, err
	}
	files, err := sqlFiles(m.migrationsDir, ".up.sql")
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, f := range files {
		if done[f] {
			continue
		}
		if err := m.runFile(ctx, filepath.Join(m.migrationsDir, f), kindMigration, f); err != nil {
			return applied, fmt.Errorf("apply %s: %w", f, err)
		}
		applied++
	}
	return applied, nil
}

// Rollback reverts the most recently applied migration using its .down.sql
// counterpart.
func (m *Manager) Rollback(ctx context.Context) (string, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return "", err
	}
	history, err := m.History(ctx)
	if err != nil {
		return "", err
	}
	if len(history) == 0 {
		return "", errors.New("no migrations applied")
	}
	last := history[len(history)-1]
	down := strings.TrimSuffix(last, ".up.sql") + ".down.sql"
	downPath := filepath.Join(m.migrationsDir, down)
	if _, err := os.Stat(downPath); err != nil {
		return "", fmt.Errorf("missing down migration for %s", last)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	script, err := os.ReadFile(downPath)
	if err != nil {
		return "", err
	}
	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return "", fmt.Errorf("rollback %s: %w", last, err)
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`delete from %s where kind = $1 and name = $2`, m.historyTable),
		kindMigration, last); err != nil {
		return "", err
	}
	return last, tx.Commit()
}

// Seed runs pending seed files. Seeds are recorded like migrations so reruns
// are no-ops; the files themselves should still be idempotent.
func (m *Manager) Seed(ctx context.Context) (int, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return 0, err
	}
	done, err := m.applied(ctx, kindSeed)
	if err != nil {
		return 0, err
	}
	files, err := sqlFiles(m.seedsDir, ".sql")
	if err != nil {
		return 0, err
	}

	applied := 0
	for _, f := range files {
		if done[f] {
			continue
		}
		if err := m.runFile(ctx, filepath.Join(m.seedsDir, f), kindSeed, f); err != nil {
			return applied, fmt.Errorf("seed %s: %w", f, err)
		}
		applied++
	}
	return applied, nil
}

// History returns applied migration names in application order.
func (m *Manager) History(ctx context.Context) ([]string, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return nil, err
	}
	rows, err := m.db.QueryContext(ctx,
		fmt.Sprintf(`select name from %s where kind = $1 order by applied_at, name`, m.historyTable),
		kindMigration)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (m *Manager) ensureHistory(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, fmt.Sprintf(`
		create table if not exists %s (
			kind       text not null,
			name       text not null,
			applied_at timestamptz not null default now(),
			primary key (kind, name)
		)
	`, m.historyTable))
	return err
}

func (m *Manager) applied(ctx context.Context, kind string) (map[string]bool, error) {
	rows, err := m.db.QueryContext(ctx,
		fmt.Sprintf(`select name from %s where kind = $1`, m.historyTable), kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		done[name] = true
	}
	return done, rows.Err()
}

func (m *Manager) runFile(ctx context.Context, path, kind, name string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(script)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`insert into %s (kind, name) values ($1, $2)`, m.historyTable),
		kind, name); err != nil {
		return err
	}
	return tx.Commit()
}

// sqlFiles lists file names in dir with the given suffix, sorted lexically.
// Version-prefixed names (0001_..., 0002_...) therefore apply in order.
func sqlFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
