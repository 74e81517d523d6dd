// Package query caches upstream reads per browser session.
//
// A query is an operation name plus positional parameters. Its Key addresses
// one cache entry. Reads run at most once per key at a time; callers arriving
// while a read is in flight share its result. Mutations mark entries stale by
// key prefix, or replace them outright with the mutation result, so the next
// read never serves data the mutation made obsolete. Results that only aged
// past the stale time are served while a background read refreshes them.
package query
