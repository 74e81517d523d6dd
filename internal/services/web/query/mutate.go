package query

import "context"

// Effect updates the cache after a mutation succeeded.
type Effect[T any] func(c *Cache, result T)

// Mutate runs a write and, only when it succeeds, applies effects in order.
// A failed write leaves the cache untouched.
func Mutate[T any](ctx context.Context, c *Cache, run func(context.Context) (T, error), effects ...Effect[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := run(ctx)
	if err != nil {
		return result, err
	}
	for _, effect := range effects {
		if effect != nil {
			effect(c, result)
		}
	}
	return result, nil
}

// Invalidates marks entries under prefixes stale.
func Invalidates[T any](prefixes ...Key) Effect[T] {
	return func(c *Cache, _ T) {
		c.Invalidate(prefixes...)
	}
}

// InvalidatesFor derives the prefixes from the mutation result.
func InvalidatesFor[T any](prefixes func(T) []Key) Effect[T] {
	return func(c *Cache, result T) {
		c.Invalidate(prefixes(result)...)
	}
}

// Sets replaces the entry at key with a value picked from the result.
func Sets[T, V any](key Key, pick func(T) V) Effect[T] {
	return func(c *Cache, result T) {
		SetData(c, key, pick(result))
	}
}
