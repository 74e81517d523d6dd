// Package sessioncookie reads the session cookie and owns the active
// workspace cookie.
package sessioncookie

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionName is the cookie carrying the opaque authentication token.
	// The gateway only reads it; the upstream API issues it.
	SessionName = "Authentication"
	// WorkspaceName is the cookie carrying the active workspace identifier.
	WorkspaceName = "workspace"
	// WorkspaceMaxAge is how long a workspace selection survives.
	WorkspaceMaxAge = 7 * 24 * time.Hour
)

// Policy carries deployment-dependent cookie attributes.
type Policy struct {
	// Secure marks written cookies Secure; enabled in production.
	Secure bool
}

// State is the cookie-derived navigation state of one request.
type State struct {
	Session        string
	SessionPresent bool
	Workspace      string
}

// Read extracts the session and workspace state from a request.
func Read(r *http.Request) State {
	session, ok := ReadSession(r)
	workspace, _ := ReadWorkspace(r)
	return State{
		Session:        session,
		SessionPresent: ok,
		Workspace:      workspace,
	}
}

// ReadSession returns the session token when present and not expired.
func ReadSession(r *http.Request) (string, bool) {
	return readSession(r, time.Now())
}

func readSession(r *http.Request, now time.Time) (string, bool) {
	value, ok := readCookie(r, SessionName)
	if !ok {
		return "", false
	}
	if tokenExpired(value, now) {
		return "", false
	}
	return value, true
}

// tokenExpired reports whether value is a JWT whose exp claim has passed.
// Opaque tokens carry no expiry the gateway can see and are never expired.
func tokenExpired(value string, now time.Time) bool {
	if strings.Count(value, ".") != 2 {
		return false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// ReadWorkspace returns the active workspace identifier when present.
//
// Values that fail to unescape are treated as absent.
func ReadWorkspace(r *http.Request) (string, bool) {
	value, ok := readCookie(r, WorkspaceName)
	if !ok {
		return "", false
	}
	decoded, err := url.QueryUnescape(value)
	if err != nil {
		return "", false
	}
	decoded = strings.TrimSpace(decoded)
	if decoded == "" {
		return "", false
	}
	return decoded, true
}

func readCookie(r *http.Request, name string) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// WriteWorkspace persists the active workspace selection.
//
// The cookie is readable by browser scripts because the UI shell also reads
// the active workspace.
func WriteWorkspace(w http.ResponseWriter, policy Policy, workspace string) {
	if w == nil {
		return
	}
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		ClearWorkspace(w, policy)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     WorkspaceName,
		Value:    url.QueryEscape(workspace),
		Path:     "/",
		MaxAge:   int(WorkspaceMaxAge / time.Second),
		Secure:   policy.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearWorkspace expires the workspace cookie.
func ClearWorkspace(w http.ResponseWriter, policy Policy) {
	expire(w, policy, WorkspaceName, false, http.SameSiteStrictMode)
}

// ClearSession expires the session cookie on logout.
func ClearSession(w http.ResponseWriter, policy Policy) {
	expire(w, policy, SessionName, true, http.SameSiteLaxMode)
}

func expire(w http.ResponseWriter, policy Policy, name string, httpOnly bool, sameSite http.SameSite) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: httpOnly,
		Secure:   policy.Secure,
		SameSite: sameSite,
	})
}
