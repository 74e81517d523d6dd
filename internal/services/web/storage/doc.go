// Package storage declares persistence for gateway-owned client state.
//
// Stored documents are user interface preferences only. Application data
// always comes from the upstream API and is never persisted here.
package storage
