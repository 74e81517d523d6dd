// Package web composes the browser-facing gateway: the route gate, the API
// proxy, the per-session query caches, and the small JSON surface that
// drives workspace selection, the workspace home view model, and interface
// preferences.
//
// Request flow is layered:
//
//   - server.go builds dependencies and the middleware chain
//   - handlers resolve the session cache and call resource queries
//   - resource packages talk to the upstream REST API through apiclient
//
// The gateway renders nothing itself; every response is JSON, a redirect, or
// a proxied upstream response.
package web
