// Package preferences owns per-user interface state: the theme, the corner
// radius, dashboard grid layouts per page, and the transient modal selection.
//
// Theme and layouts persist through a storage.Store under the keys
// "theme-config" and "dashboard-layouts". Modal selection lives only in the
// Store value.
package preferences
