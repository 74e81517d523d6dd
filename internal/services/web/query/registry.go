package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultIdleTTL is how long a session cache survives without use.
const DefaultIdleTTL = 30 * time.Minute

// Registry hands out one Cache per session token.
//
// Sessions are isolated: one user's cached reads are never served to another.
// Caches idle for longer than the idle TTL are dropped.
type Registry struct {
	mu       sync.Mutex
	sessions *ttlcache.Cache[string, *Cache]
	options  Options
	stopOnce sync.Once
}

// NewRegistry builds a registry and starts its idle eviction loop; call Close
// to stop it.
func NewRegistry(options Options, idleTTL time.Duration) *Registry {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	sessions := ttlcache.New(ttlcache.WithTTL[string, *Cache](idleTTL))
	sessions.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *Cache]) {
		item.Value().Clear()
	})
	go sessions.Start()
	return &Registry{sessions: sessions, options: options}
}

// For returns the cache of session, creating it on first use. An empty
// session gets a nil cache, which reads through without caching.
func (r *Registry) For(session string) *Cache {
	session = strings.TrimSpace(session)
	if r == nil || session == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if item := r.sessions.Get(session); item != nil {
		return item.Value()
	}
	cache := New(r.options)
	r.sessions.Set(session, cache, ttlcache.DefaultTTL)
	return cache
}

// Drop discards the cache of session, for example on logout.
func (r *Registry) Drop(session string) {
	session = strings.TrimSpace(session)
	if r == nil || session == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Delete(session)
}

// Len returns the number of live session caches.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.DeleteExpired()
	return r.sessions.Len()
}

// Close drops every session cache and stops the eviction loop.
func (r *Registry) Close() {
	if r == nil {
		return
	}
	r.stopOnce.Do(func() {
		r.sessions.DeleteAll()
		r.sessions.Stop()
	})
}
