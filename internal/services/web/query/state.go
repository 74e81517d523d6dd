package query

import "time"

// Status is the lifecycle position of a query result.
type Status int

const (
	// StatusPending means no result is available yet.
	StatusPending Status = iota
	// StatusSuccess means Data holds the latest fetched value.
	StatusSuccess
	// StatusError means the latest fetch failed; Data may hold older data.
	StatusError
)

// String returns a log-friendly status name.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is what a caller observes for one query.
type State[T any] struct {
	Status Status
	Data   T
	// HasData reports whether Data came from a successful fetch, possibly an
	// older one kept across an error.
	HasData bool
	Err     error
	// Stale is set when the data was invalidated or outlived the stale time.
	Stale bool
	// Enabled is false when the query was gated off and never fetched.
	Enabled   bool
	UpdatedAt time.Time
}

// Ready reports whether the state carries usable data.
func (s State[T]) Ready() bool {
	return s.HasData
}
