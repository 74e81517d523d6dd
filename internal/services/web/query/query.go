package query

import (
	"context"
	"strings"
)

// FetchFunc reads the value of a query from upstream. params are the values
// bound with Query.With, in order.
type FetchFunc[T any] func(ctx context.Context, params []string) (T, error)

// Query is a typed read definition plus, once bound, its parameters.
//
// Queries are values: With and Enabled return modified copies, so one
// definition can be shared by every caller.
type Query[T any] struct {
	op       string
	params   []string
	fetch    FetchFunc[T]
	disabled bool
}

// Define declares a read operation.
func Define[T any](op string, fetch FetchFunc[T]) Query[T] {
	return Query[T]{op: op, fetch: fetch}
}

// With binds the query parameters.
func (q Query[T]) With(params ...string) Query[T] {
	q.params = append([]string(nil), params...)
	return q
}

// Enabled adds a caller-side gate; a false value prevents any fetch.
func (q Query[T]) Enabled(enabled bool) Query[T] {
	q.disabled = q.disabled || !enabled
	return q
}

// IsEnabled is the gate evaluated before every fetch attempt: every bound
// parameter must be non-empty and no caller gate may be closed.
func (q Query[T]) IsEnabled() bool {
	if q.disabled || q.fetch == nil {
		return false
	}
	for _, param := range q.params {
		if strings.TrimSpace(param) == "" {
			return false
		}
	}
	return true
}

// Key returns the cache key of the bound query.
func (q Query[T]) Key() Key {
	return NewKey(q.op, q.params...)
}

// Op returns the operation name.
func (q Query[T]) Op() string {
	return q.op
}
