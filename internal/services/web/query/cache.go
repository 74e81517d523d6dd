package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultGCTime is how long an unread entry survives.
	DefaultGCTime = 5 * time.Minute

	tracerName = "github.com/louisbranch/taskspace/internal/services/web/query"
)

// Options tunes a Cache.
type Options struct {
	// StaleTime is how long a fetched result is served without refetching.
	// Zero makes fetched results stale as soon as they land. Values written
	// with SetData stay fresh until invalidated.
	StaleTime time.Duration
	// GCTime evicts entries that were not read for this long.
	GCTime time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Cache holds query results for one session.
type Cache struct {
	mu        sync.Mutex
	entries   *ttlcache.Cache[string, *entry]
	flights   singleflight.Group
	staleTime time.Duration
	now       func() time.Time
	tracer    trace.Tracer
}

type entry struct {
	key         Key
	status      Status
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
	// pinned marks a value written by SetData; it ignores StaleTime.
	pinned bool
	// generation increments on every invalidation or direct write, so a
	// fetch that started earlier can tell its result is outdated.
	generation uint64
}

type snapshot struct {
	status    Status
	data      any
	hasData   bool
	err       error
	stale     bool
	updatedAt time.Time
}

// New builds an empty cache.
func New(opts Options) *Cache {
	gcTime := opts.GCTime
	if gcTime <= 0 {
		gcTime = DefaultGCTime
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	staleTime := opts.StaleTime
	if staleTime < 0 {
		staleTime = 0
	}
	return &Cache{
		entries:   ttlcache.New(ttlcache.WithTTL[string, *entry](gcTime)),
		staleTime: staleTime,
		now:       now,
		tracer:    otel.Tracer(tracerName),
	}
}

// Fetch returns the state of q, reading upstream when the cached result is
// missing or stale.
//
// A result that aged past StaleTime is returned as is, marked stale, while a
// background refresh replaces it. An invalidated or missing result blocks on
// the fetch.
//
// A gated-off query returns a pending, disabled state and never fetches. At
// most one fetch per key runs at a time; concurrent callers share it. When
// ctx ends first the caller detaches with ctx.Err() while the shared fetch
// runs to completion and still populates the cache.
//
// A nil cache fetches directly without storing anything.
func Fetch[T any](ctx context.Context, c *Cache, q Query[T]) State[T] {
	if !q.IsEnabled() {
		return State[T]{Status: StatusPending}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c == nil {
		data, err := q.fetch(ctx, q.params)
		if err != nil {
			return State[T]{Status: StatusError, Err: err, Enabled: true}
		}
		return State[T]{Status: StatusSuccess, Data: data, HasData: true, Enabled: true, UpdatedAt: time.Now()}
	}

	key := q.Key()
	id := key.String()

	detached := context.WithoutCancel(ctx)
	params := append([]string(nil), q.params...)
	start := func() <-chan singleflight.Result {
		return c.flights.DoChan(id, func() (any, error) {
			return c.load(detached, key, func(ctx context.Context) (any, error) {
				return q.fetch(ctx, params)
			}), nil
		})
	}

	c.mu.Lock()
	if e := c.lookup(id); e != nil && e.status == StatusSuccess {
		if !c.isStale(e) {
			snap := e.snapshot(false)
			c.mu.Unlock()
			return stateOf[T](snap)
		}
		if !e.invalidated {
			snap := e.snapshot(true)
			c.mu.Unlock()
			start()
			return stateOf[T](snap)
		}
	}
	c.mu.Unlock()

	results := start()
	select {
	case result := <-results:
		snap, _ := result.Val.(snapshot)
		return stateOf[T](snap)
	case <-ctx.Done():
		state := State[T]{Status: StatusError, Enabled: true}
		if previous, ok := Peek[T](c, key); ok {
			state = previous
			state.Status = StatusError
		}
		state.Err = ctx.Err()
		return state
	}
}

// load runs one shared fetch and stores its outcome.
func (c *Cache) load(ctx context.Context, key Key, fetch func(context.Context) (any, error)) snapshot {
	id := key.String()

	c.mu.Lock()
	e := c.lookup(id)
	if e == nil {
		e = &entry{key: key, status: StatusPending}
		c.entries.Set(id, e, ttlcache.DefaultTTL)
	} else if e.status == StatusSuccess && !c.isStale(e) {
		snap := e.snapshot(false)
		c.mu.Unlock()
		return snap
	}
	generation := e.generation
	started := c.now()
	c.mu.Unlock()

	ctx, span := c.tracer.Start(ctx, "query.fetch", trace.WithAttributes(
		attribute.String("query.op", key.Op()),
		attribute.String("query.key", id),
	))
	data, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.lookup(id)
	superseded := current != e || current.generation != generation
	if current == nil {
		current = &entry{key: key, status: StatusPending}
	}
	if superseded && current.status == StatusSuccess && !current.updatedAt.Before(started) {
		// A direct write landed during the fetch and wins over it.
		return current.snapshot(c.isStale(current))
	}
	if err != nil {
		current.status = StatusError
		current.err = err
	} else {
		current.status = StatusSuccess
		current.data = data
		current.hasData = true
		current.err = nil
		current.updatedAt = c.now()
		current.invalidated = superseded
		current.pinned = false
	}
	c.entries.Set(id, current, ttlcache.DefaultTTL)
	return current.snapshot(c.isStale(current))
}

// SetData replaces the entry at key with value. The value stays fresh until
// the key is invalidated.
func SetData[T any](c *Cache, key Key, value T) {
	if c == nil || len(key) == 0 {
		return
	}
	id := key.String()

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(id)
	if e == nil {
		e = &entry{key: key}
	}
	e.status = StatusSuccess
	e.data = value
	e.hasData = true
	e.err = nil
	e.updatedAt = c.now()
	e.invalidated = false
	e.pinned = true
	e.generation++
	c.entries.Set(id, e, ttlcache.DefaultTTL)
}

// Peek returns the cached state at key without fetching.
func Peek[T any](c *Cache, key Key) (State[T], bool) {
	if c == nil || len(key) == 0 {
		return State[T]{}, false
	}
	c.mu.Lock()
	e := c.lookup(key.String())
	if e == nil {
		c.mu.Unlock()
		return State[T]{}, false
	}
	snap := e.snapshot(c.isStale(e))
	c.mu.Unlock()
	return stateOf[T](snap), true
}

// Invalidate marks every entry whose key starts with one of prefixes stale,
// including entries whose fetch is still in flight. It returns the number of
// entries marked.
func (c *Cache) Invalidate(prefixes ...Key) int {
	if c == nil || len(prefixes) == 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.DeleteExpired()
	marked := 0
	for _, item := range c.entries.Items() {
		e := item.Value()
		for _, prefix := range prefixes {
			if e.key.HasPrefix(prefix) {
				e.invalidated = true
				e.pinned = false
				e.generation++
				marked++
				break
			}
		}
	}
	return marked
}

// Remove drops the entry at key.
func (c *Cache) Remove(key Key) {
	if c == nil || len(key) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Delete(key.String())
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.DeleteExpired()
	return c.entries.Len()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.DeleteAll()
}

func (c *Cache) lookup(id string) *entry {
	item := c.entries.Get(id)
	if item == nil {
		return nil
	}
	return item.Value()
}

func (c *Cache) isStale(e *entry) bool {
	if e.invalidated {
		return true
	}
	if e.pinned {
		return false
	}
	return c.now().Sub(e.updatedAt) >= c.staleTime
}

func (e *entry) snapshot(stale bool) snapshot {
	return snapshot{
		status:    e.status,
		data:      e.data,
		hasData:   e.hasData,
		err:       e.err,
		stale:     stale,
		updatedAt: e.updatedAt,
	}
}

func stateOf[T any](snap snapshot) State[T] {
	state := State[T]{
		Status:    snap.status,
		Err:       snap.err,
		Stale:     snap.stale,
		Enabled:   true,
		UpdatedAt: snap.updatedAt,
	}
	if !snap.hasData {
		return state
	}
	data, ok := snap.data.(T)
	if !ok {
		state.Status = StatusError
		state.Err = fmt.Errorf("query: cached value has type %T", snap.data)
		return state
	}
	state.Data = data
	state.HasData = true
	return state
}
