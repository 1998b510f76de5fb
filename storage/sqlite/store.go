// Package sqlite implements storage.Store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/weedbox/pokertournament/apperr"
	"github.com/weedbox/pokertournament/storage"
	"github.com/weedbox/pokertournament/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	ErrPathRequired       = apperr.Configuration("sqlite: storage path is required")
	ErrForeignKeysOff     = apperr.Configuration("sqlite: foreign keys are disabled")
	ErrStoreNotConfigured = apperr.Configuration("sqlite: storage is not configured")
)

type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

/*
Open 開啟 SQLite 資料庫
  - 開啟 WAL 與 foreign keys
  - 套用尚未執行的 migrations
*/
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrPathRequired
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite db")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, eris.Wrap(err, "ping sqlite db")
	}

	if err := ensureForeignKeys(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := Migrate(ctx, db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func ensureForeignKeys(ctx context.Context, db *sql.DB) error {
	var enabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return eris.Wrap(err, "check sqlite foreign key pragma")
	}

	if enabled != 1 {
		return ErrForeignKeysOff
	}
	return nil
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s == nil || s.db == nil {
		return ErrStoreNotConfigured
	}
	return nil
}

// withTx runs fn in a transaction, rolled back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "begin transaction")
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(err, "commit transaction")
	}
	return nil
}

// classify maps constraint failures onto the storage sentinels.
func classify(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY {
		return apperr.Wrap(apperr.Kind_Restricted, err, action+": record is still referenced")
	}

	// 錯誤碼未展開時以訊息判斷
	if strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed") {
		return apperr.Wrap(apperr.Kind_Restricted, err, action+": record is still referenced")
	}

	return eris.Wrap(err, action)
}

func expectAffected(res sql.Result, action string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, action)
	}

	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func millisPtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

func nullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func int64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
