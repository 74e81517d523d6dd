package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/taskspace/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/taskspace/internal/services/web/storage"
	"github.com/louisbranch/taskspace/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed preference persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a preference store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetPreference loads one preference document.
func (s *Store) GetPreference(ctx context.Context, owner, key string) (webstorage.Preference, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.Preference{}, false, webstorage.ErrNotConfigured
	}
	owner, key, err := normalizeID(owner, key)
	if err != nil {
		return webstorage.Preference{}, false, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT owner, pref_key, value_json, updated_at
		 FROM preferences
		 WHERE owner = ? AND pref_key = ?`,
		owner,
		key,
	)

	var pref webstorage.Preference
	var updatedAt int64
	if err := row.Scan(&pref.Owner, &pref.Key, &pref.Value, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.Preference{}, false, nil
		}
		return webstorage.Preference{}, false, fmt.Errorf("get preference: %w", err)
	}
	pref.UpdatedAt = unixMillisToTime(updatedAt)
	return pref, true, nil
}

// PutPreference upserts one preference document.
func (s *Store) PutPreference(ctx context.Context, pref webstorage.Preference) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	owner, key, err := normalizeID(pref.Owner, pref.Key)
	if err != nil {
		return err
	}
	if len(pref.Value) == 0 {
		return fmt.Errorf("preference value is required")
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO preferences (owner, pref_key, value_json, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, pref_key) DO UPDATE SET
		    value_json = excluded.value_json,
		    updated_at = excluded.updated_at`,
		owner,
		key,
		pref.Value,
		timeToUnixMillis(pref.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put preference: %w", err)
	}
	return nil
}

// DeletePreference removes one preference document.
func (s *Store) DeletePreference(ctx context.Context, owner, key string) error {
	if s == nil || s.sqlDB == nil {
		return webstorage.ErrNotConfigured
	}
	owner, key, err := normalizeID(owner, key)
	if err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM preferences WHERE owner = ? AND pref_key = ?`, owner, key); err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	return nil
}

func normalizeID(owner, key string) (string, string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", "", fmt.Errorf("preference owner is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("preference key is required")
	}
	return owner, key, nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ webstorage.Store = (*Store)(nil)
