package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

const migrationTable = "schema_migrations"

// Migrate applies every embedded *.sql file at most once, in name order.
func Migrate(ctx context.Context, db *sql.DB, migrationFS fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(migrationFS, ".")
	if err != nil {
		return nil, eris.Wrap(err, "read migrations dir")
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
)`); err != nil {
		return nil, eris.Wrap(err, "ensure migration table")
	}

	applied := make([]string, 0)
	for _, file := range files {
		done, err := isApplied(ctx, db, file)
		if err != nil {
			return nil, eris.Wrapf(err, "check migration %s", file)
		}
		if done {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return nil, eris.Wrapf(err, "read migration %s", file)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return nil, eris.Wrapf(err, "begin migration %s", file)
		}

		if _, err := tx.ExecContext(ctx, string(content)); err != nil {
			_ = tx.Rollback()
			return nil, eris.Wrapf(err, "exec migration %s", file)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`,
			file, time.Now().UTC().UnixMilli(),
		); err != nil {
			_ = tx.Rollback()
			return nil, eris.Wrapf(err, "record migration %s", file)
		}

		if err := tx.Commit(); err != nil {
			return nil, eris.Wrapf(err, "commit migration %s", file)
		}
		applied = append(applied, file)
	}

	return applied, nil
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var found int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM `+migrationTable+` WHERE name = ?`, name).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
