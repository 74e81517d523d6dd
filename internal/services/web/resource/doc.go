// Package resource holds what every resource service shares: the cache key
// families of all reads and small typed helpers over apiclient.Caller.
//
// Keys live in one place so a write in one package can invalidate reads owned
// by another without importing it.
package resource
