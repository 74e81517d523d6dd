package routegate

import (
	"net/http"
	"strings"

	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
)

// excludedPrefixes are never gated: build output, image optimization, and
// static assets.
var excludedPrefixes = []string{
	"/_next/static/",
	"/_next/image",
	"/static/",
}

// Matches reports whether the gate applies to path.
func Matches(path string) bool {
	if path == "/favicon.ico" {
		return false
	}
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// StateReader extracts cookie state from a request.
type StateReader func(*http.Request) sessioncookie.State

// Middleware enforces policy ahead of every matched route.
//
// A nil reader reads the standard session and workspace cookies. Redirects use
// 307 so the method is preserved; cookies are never written here.
func Middleware(policy Policy, read StateReader) func(http.Handler) http.Handler {
	if read == nil {
		read = sessioncookie.Read
	}
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r == nil || r.URL == nil || !Matches(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			state := read(r)
			decision := policy.Decide(r.URL.Path, state.SessionPresent, state.Workspace)
			if decision.Action == ActionRedirect {
				http.Redirect(w, r, decision.Target, http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
