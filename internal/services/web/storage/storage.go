package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by a nil or closed store.
var ErrNotConfigured = errors.New("storage is not configured")

// Preference is one JSON document owned by one user.
type Preference struct {
	Owner     string
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// Store persists preference documents. Writes are last-writer-wins.
type Store interface {
	Close() error
	GetPreference(ctx context.Context, owner, key string) (Preference, bool, error)
	PutPreference(ctx context.Context, pref Preference) error
	DeletePreference(ctx context.Context, owner, key string) error
}
