package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

type memoryKey struct {
	owner string
	key   string
}

// MemoryStore keeps preferences in process memory. It backs development runs
// without a database path and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[memoryKey]Preference
	closed bool
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[memoryKey]Preference{}}
}

func (s *MemoryStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *MemoryStore) GetPreference(_ context.Context, owner, key string) (Preference, bool, error) {
	id, err := memoryID(owner, key)
	if err != nil {
		return Preference{}, false, err
	}
	if s == nil {
		return Preference{}, false, ErrNotConfigured
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Preference{}, false, ErrNotConfigured
	}
	pref, ok := s.values[id]
	if !ok {
		return Preference{}, false, nil
	}
	pref.Value = append([]byte(nil), pref.Value...)
	return pref, true, nil
}

func (s *MemoryStore) PutPreference(_ context.Context, pref Preference) error {
	id, err := memoryID(pref.Owner, pref.Key)
	if err != nil {
		return err
	}
	if len(pref.Value) == 0 {
		return fmt.Errorf("preference value is required")
	}
	if s == nil {
		return ErrNotConfigured
	}
	if pref.UpdatedAt.IsZero() {
		pref.UpdatedAt = time.Now().UTC()
	}
	pref.Owner, pref.Key = id.owner, id.key
	pref.Value = append([]byte(nil), pref.Value...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotConfigured
	}
	s.values[id] = pref
	return nil
}

func (s *MemoryStore) DeletePreference(_ context.Context, owner, key string) error {
	id, err := memoryID(owner, key)
	if err != nil {
		return err
	}
	if s == nil {
		return ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrNotConfigured
	}
	delete(s.values, id)
	return nil
}

func memoryID(owner, key string) (memoryKey, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return memoryKey{}, fmt.Errorf("preference owner is required")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return memoryKey{}, fmt.Errorf("preference key is required")
	}
	return memoryKey{owner: owner, key: key}, nil
}

var _ Store = (*MemoryStore)(nil)
