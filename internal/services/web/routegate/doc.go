// Package routegate decides, per browser navigation, whether to serve the
// request or redirect it to sign-in or workspace selection.
//
// The decision is a pure function of the request path, whether a session
// cookie is present, and the active workspace cookie. Cookie I/O lives in
// Middleware so the policy stays testable without a request.
package routegate
