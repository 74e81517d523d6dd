package query

import (
	"net/url"
	"strings"
)

// Key is the canonical, order-sensitive identifier of a cache entry: the
// operation name followed by its parameters.
type Key []string

// NewKey builds a key from an operation name and parameters.
func NewKey(op string, params ...string) Key {
	key := make(Key, 0, len(params)+1)
	key = append(key, op)
	return append(key, params...)
}

// String joins escaped segments with "/"; distinct keys never collide.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, segment := range k {
		parts[i] = url.PathEscape(segment)
	}
	return strings.Join(parts, "/")
}

// Op returns the operation name.
func (k Key) Op() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether k starts with every segment of prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) == 0 || len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Equal reports segment-wise equality.
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}
