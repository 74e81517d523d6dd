package routegate

import (
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Redirect targets.
const (
	LoginPath     = "/login"
	WorkspacePath = "/workspace"
	homeSuffix    = "/home"
)

// Action is the outcome of a gate decision.
type Action int

const (
	// ActionAllow serves the request unchanged.
	ActionAllow Action = iota
	// ActionRedirect sends the browser to Decision.Target.
	ActionRedirect
)

// String returns a log-friendly action name.
func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating the gate for one navigation.
type Decision struct {
	Action Action
	Target string
}

// Allow is the pass-through decision.
func Allow() Decision {
	return Decision{Action: ActionAllow}
}

// RedirectTo is a redirect decision.
func RedirectTo(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

// Policy classifies paths for the gate.
type Policy struct {
	// PublicPrefixes are reachable without a session.
	PublicPrefixes []string
	// APIPrefix is exempt from the workspace-selection redirect.
	APIPrefix string
	// EntryPaths redirect a signed-in user with a workspace to its home.
	EntryPaths mapset.Set[string]
}

// DefaultPolicy returns the gateway's navigation policy with the given API
// proxy prefix; an empty prefix means "/api".
func DefaultPolicy(apiPrefix string) Policy {
	apiPrefix = normalizePrefix(apiPrefix)
	if apiPrefix == "" {
		apiPrefix = "/api"
	}
	return Policy{
		PublicPrefixes: []string{
			LoginPath,
			"/signup",
			"/forgot-password",
			"/reset-password",
			apiPrefix,
		},
		APIPrefix:  apiPrefix,
		EntryPaths: mapset.NewThreadUnsafeSet("/", LoginPath, "/signup", "/forgot-password"),
	}
}

// Decide evaluates the navigation rules in precedence order; the first match
// wins:
//
//  1. no session, public path or root: allow
//  2. no session: redirect to /login
//  3. session without workspace, outside /workspace and the API prefix:
//     redirect to /workspace
//  4. session with workspace on root or an auth entry page: redirect to
//     /{workspace}/home
//  5. allow
func (p Policy) Decide(path string, sessionPresent bool, workspace string) Decision {
	path = normalizePath(path)
	workspace = strings.TrimSpace(workspace)

	if !sessionPresent {
		if path == "/" || p.IsPublic(path) {
			return Allow()
		}
		return RedirectTo(LoginPath)
	}
	if workspace == "" {
		if path != WorkspacePath && !underPrefix(path, p.APIPrefix) {
			return RedirectTo(WorkspacePath)
		}
		return Allow()
	}
	if p.EntryPaths != nil && p.EntryPaths.Contains(path) {
		return RedirectTo(HomePath(workspace))
	}
	return Allow()
}

// IsPublic reports whether path is reachable without a session.
func (p Policy) IsPublic(path string) bool {
	path = normalizePath(path)
	for _, prefix := range p.PublicPrefixes {
		if underPrefix(path, normalizePrefix(prefix)) {
			return true
		}
	}
	return false
}

// HomePath returns the landing page of a workspace.
func HomePath(workspace string) string {
	return "/" + url.PathEscape(strings.TrimSpace(workspace)) + homeSuffix
}

// underPrefix is a plain string-prefix match, so "/login" also covers
// "/login/otp" and "/loginx".
func underPrefix(path, prefix string) bool {
	if prefix == "" || prefix == "/" {
		return false
	}
	return strings.HasPrefix(path, prefix)
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimRight(prefix, "/")
}
