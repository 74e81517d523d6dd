// Package sqlite persists user interface preferences in SQLite.
package sqlite
