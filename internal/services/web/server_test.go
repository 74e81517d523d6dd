package web

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient/apiclienttest"
	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/platform/flash"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/preferences"
	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/storage"
)

const testSession = "session-token-1"

type testGateway struct {
	handler  http.Handler
	api      *apiclienttest.Caller
	sessions *query.Registry
}

func newTestGateway(t *testing.T, api *apiclienttest.Caller, deps Dependencies) testGateway {
	t.Helper()
	sessions := query.NewRegistry(query.Options{StaleTime: time.Hour}, time.Hour)
	t.Cleanup(sessions.Close)

	deps.API = api
	deps.Sessions = sessions
	if deps.Preferences == nil {
		deps.Preferences = storage.NewMemoryStore()
	}
	deps.Logger = log.New(io.Discard, "", 0)
	handler, err := NewHandler(Config{ProxyPrefix: "/api"}, deps)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return testGateway{handler: handler, api: api, sessions: sessions}
}

func (g testGateway) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	g.handler.ServeHTTP(rec, req)
	return rec
}

func newRequest(method, target, body string, cookies ...*http.Cookie) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return req
}

func sessionCookie() *http.Cookie {
	return &http.Cookie{Name: sessioncookie.SessionName, Value: testSession}
}

func workspaceCookie(id string) *http.Cookie {
	return &http.Cookie{Name: sessioncookie.WorkspaceName, Value: id}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func readNotice(t *testing.T, rec *httptest.ResponseRecorder) flash.Notice {
	t.Helper()
	cookie := findCookie(rec, flash.CookieName)
	if cookie == nil {
		t.Fatal("expected flash cookie")
	}
	req := newRequest(http.MethodGet, "/", "", cookie)
	notice, ok := flash.ReadAndClear(httptest.NewRecorder(), req, false)
	if !ok {
		t.Fatalf("flash cookie did not decode: %q", cookie.Value)
	}
	return notice
}

func homeAPI() *apiclienttest.Caller {
	return apiclienttest.New().
		On(http.MethodGet, "/users/me", apiclienttest.Response{Body: map[string]any{"id": "u1", "name": "Ada", "email": "ada@example.com", "activeWorkspaceId": "acme"}}).
		On(http.MethodGet, "/workspaces/acme", apiclienttest.Response{Body: map[string]any{"id": "acme", "name": "Acme", "slug": "acme"}}).
		On(http.MethodGet, "/workspaces/acme/spaces", apiclienttest.Response{Body: []map[string]any{{"id": "s1", "workspaceId": "acme", "name": "Engineering"}}}).
		On(http.MethodGet, "/workspaces/acme/dashboards", apiclienttest.Response{Body: []map[string]any{{"id": "d1", "workspaceId": "acme", "name": "Sprint"}}}).
		On(http.MethodGet, "/workspaces/acme/notifications/unread-count", apiclienttest.Response{Body: map[string]any{"count": 3}})
}

func TestNewHandlerRequiresDependencies(t *testing.T) {
	t.Parallel()

	sessions := query.NewRegistry(query.Options{}, time.Minute)
	t.Cleanup(sessions.Close)
	api := apiclienttest.New()
	store := storage.NewMemoryStore()

	tests := []struct {
		name string
		deps Dependencies
	}{
		{name: "api", deps: Dependencies{Sessions: sessions, Preferences: store}},
		{name: "sessions", deps: Dependencies{API: api, Preferences: store}},
		{name: "preferences", deps: Dependencies{API: api, Sessions: sessions}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewHandler(Config{}, tc.deps); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHealthzBypassesGate(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, apiclienttest.New(), Dependencies{})
	rec := gw.serve(newRequest(http.MethodGet, "/healthz", ""))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(httpx.RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestGateRedirects(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, apiclienttest.New(), Dependencies{})
	tests := []struct {
		name     string
		path     string
		cookies  []*http.Cookie
		location string
	}{
		{name: "no session", path: "/preferences/theme", location: "/login"},
		{name: "no workspace", path: "/acme/home", cookies: []*http.Cookie{sessionCookie()}, location: "/workspace"},
		{name: "entry page with workspace", path: "/login", cookies: []*http.Cookie{sessionCookie(), workspaceCookie("acme")}, location: "/acme/home"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := gw.serve(newRequest(http.MethodGet, tc.path, "", tc.cookies...))
			if rec.Code != http.StatusTemporaryRedirect {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusTemporaryRedirect)
			}
			if got := rec.Header().Get("Location"); got != tc.location {
				t.Fatalf("location = %q, want %q", got, tc.location)
			}
		})
	}
	if len(gw.api.Requests()) != 0 {
		t.Fatalf("gate issued upstream requests: %+v", gw.api.Requests())
	}
}

func TestWorkspaceResumesActiveWorkspace(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, homeAPI(), Dependencies{})
	rec := gw.serve(newRequest(http.MethodGet, "/workspace", "", sessionCookie()))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/acme/home" {
		t.Fatalf("location = %q", got)
	}
	cookie := findCookie(rec, sessioncookie.WorkspaceName)
	if cookie == nil || cookie.Value != "acme" {
		t.Fatalf("workspace cookie = %+v", cookie)
	}
}

func TestWorkspaceListsChoicesWithoutActiveWorkspace(t *testing.T) {
	t.Parallel()

	api := apiclienttest.New().
		On(http.MethodGet, "/users/me", apiclienttest.Response{Body: map[string]any{"id": "u1"}}).
		On(http.MethodGet, "/workspaces", apiclienttest.Response{Body: []map[string]any{{"id": "acme", "name": "Acme", "slug": "acme"}}})
	gw := newTestGateway(t, api, Dependencies{})

	rec := gw.serve(newRequest(http.MethodGet, "/workspace", "", sessionCookie()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"slug":"acme"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}

	gw.serve(newRequest(http.MethodGet, "/workspace", "", sessionCookie()))
	if got := api.Count(http.MethodGet, "/workspaces"); got != 1 {
		t.Fatalf("workspaces fetched %d times, want cached once", got)
	}
}

func TestSelectWorkspaceSetsCookieAndInvalidatesScopedQueries(t *testing.T) {
	t.Parallel()

	api := homeAPI().On(http.MethodPatch, "/users/me/active-workspace", apiclienttest.Response{
		Body: map[string]any{"id": "u1", "activeWorkspaceId": "acme"},
	})
	gw := newTestGateway(t, api, Dependencies{})
	cookies := []*http.Cookie{sessionCookie(), workspaceCookie("acme")}

	if rec := gw.serve(newRequest(http.MethodGet, "/acme/home", "", cookies...)); rec.Code != http.StatusOK {
		t.Fatalf("home status = %d, body = %s", rec.Code, rec.Body.String())
	}

	req := newRequest(http.MethodPost, "/workspace", url.Values{"workspaceId": {"acme"}}.Encode(), sessionCookie())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := gw.serve(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/acme/home" {
		t.Fatalf("location = %q", got)
	}
	cookie := findCookie(rec, sessioncookie.WorkspaceName)
	if cookie == nil || cookie.Value != "acme" || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("workspace cookie = %+v", cookie)
	}
	if notice := readNotice(t, rec); notice.Kind != flash.KindSuccess {
		t.Fatalf("notice = %+v", notice)
	}

	if rec := gw.serve(newRequest(http.MethodGet, "/acme/home", "", cookies...)); rec.Code != http.StatusOK {
		t.Fatalf("home status = %d", rec.Code)
	}
	if got := api.Count(http.MethodGet, "/workspaces/acme/spaces"); got != 2 {
		t.Fatalf("spaces fetched %d times, want refetch after selection", got)
	}
	if got := api.Count(http.MethodGet, "/workspaces/acme/notifications/unread-count"); got != 2 {
		t.Fatalf("unread count fetched %d times, want refetch after selection", got)
	}
}

func TestSelectWorkspaceAcceptsJSON(t *testing.T) {
	t.Parallel()

	api := apiclienttest.New().On(http.MethodPatch, "/users/me/active-workspace", apiclienttest.Response{
		Body: map[string]any{"id": "u1", "activeWorkspaceId": "beta"},
	})
	gw := newTestGateway(t, api, Dependencies{})
	req := newRequest(http.MethodPost, "/workspace", `{"workspaceId":"beta"}`, sessionCookie())
	req.Header.Set("Content-Type", "application/json")

	rec := gw.serve(req)
	if got := rec.Header().Get("Location"); rec.Code != http.StatusSeeOther || got != "/beta/home" {
		t.Fatalf("response = %d %q", rec.Code, got)
	}
}

func TestSelectWorkspaceFailureWritesNotice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		api     *apiclienttest.Caller
		message string
	}{
		{
			name: "server message",
			body: "workspaceId=acme",
			api: apiclienttest.New().On(http.MethodPatch, "/users/me/active-workspace", apiclienttest.Response{
				Err: apperrors.Application(http.StatusForbidden, "You are not a member of this workspace"),
			}),
			message: "You are not a member of this workspace",
		},
		{
			name: "transport fallback",
			body: "workspaceId=acme",
			api: apiclienttest.New().On(http.MethodPatch, "/users/me/active-workspace", apiclienttest.Response{
				Err: apperrors.Transport(io.ErrUnexpectedEOF),
			}),
			message: "The service is unavailable right now. Please try again in a moment.",
		},
		{
			name:    "missing id",
			body:    "workspaceId=",
			api:     apiclienttest.New(),
			message: "workspaceId",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gw := newTestGateway(t, tc.api, Dependencies{})
			req := newRequest(http.MethodPost, "/workspace", tc.body, sessionCookie())
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := gw.serve(req)
			if got := rec.Header().Get("Location"); rec.Code != http.StatusSeeOther || got != "/workspace" {
				t.Fatalf("response = %d %q", rec.Code, got)
			}
			if findCookie(rec, sessioncookie.WorkspaceName) != nil {
				t.Fatal("workspace cookie written on failure")
			}
			notice := readNotice(t, rec)
			if notice.Kind != flash.KindError || !strings.Contains(notice.Message, tc.message) {
				t.Fatalf("notice = %+v, want message containing %q", notice, tc.message)
			}
		})
	}
}

func TestHomeRendersViewModel(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, homeAPI(), Dependencies{})
	rec := gw.serve(newRequest(http.MethodGet, "/acme/home", "", sessionCookie(), workspaceCookie("acme")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{`"name":"Acme"`, `"name":"Engineering"`, `"name":"Sprint"`, `"unreadNotifications":3`} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %s: %s", want, body)
		}
	}
	if strings.Contains(body, `"errors"`) {
		t.Fatalf("unexpected section errors: %s", body)
	}
}

func TestHomeDegradesFailedSections(t *testing.T) {
	t.Parallel()

	api := homeAPI().On(http.MethodGet, "/workspaces/acme/dashboards", apiclienttest.Response{
		Err: apperrors.Application(http.StatusInternalServerError, "dashboards are down"),
	})
	gw := newTestGateway(t, api, Dependencies{})
	rec := gw.serve(newRequest(http.MethodGet, "/acme/home", "", sessionCookie(), workspaceCookie("acme")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"dashboards":[]`) || !strings.Contains(body, `"dashboards":"dashboards are down"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestHomeUnknownWorkspaceClearsCookie(t *testing.T) {
	t.Parallel()

	api := homeAPI().On(http.MethodGet, "/workspaces/gone", apiclienttest.Response{
		Err: apperrors.Application(http.StatusNotFound, "Workspace not found"),
	})
	gw := newTestGateway(t, api, Dependencies{})
	rec := gw.serve(newRequest(http.MethodGet, "/gone/home", "", sessionCookie(), workspaceCookie("gone")))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	cookie := findCookie(rec, sessioncookie.WorkspaceName)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("workspace cookie = %+v, want expired", cookie)
	}
}

func TestThemePreferences(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, homeAPI(), Dependencies{})
	cookies := []*http.Cookie{sessionCookie(), workspaceCookie("acme")}

	rec := gw.serve(newRequest(http.MethodGet, "/preferences/theme", "", cookies...))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"theme":"default"`) {
		t.Fatalf("default theme = %d %s", rec.Code, rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodPut, "/preferences/theme", `{"theme":"rose","radius":0.75}`, cookies...))
	if rec.Code != http.StatusOK {
		t.Fatalf("set theme = %d %s", rec.Code, rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodGet, "/preferences/theme", "", cookies...))
	if !strings.Contains(rec.Body.String(), `"theme":"rose"`) || !strings.Contains(rec.Body.String(), `"radius":0.75`) {
		t.Fatalf("stored theme = %s", rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodPut, "/preferences/theme", `{"theme":"plaid","radius":0.75}`, cookies...))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid theme status = %d", rec.Code)
	}
	if got := gw.api.Count(http.MethodGet, "/users/me"); got != 1 {
		t.Fatalf("profile fetched %d times, want cached once", got)
	}
}

func TestLayoutPreferences(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, homeAPI(), Dependencies{})
	cookies := []*http.Cookie{sessionCookie(), workspaceCookie("acme")}

	rec := gw.serve(newRequest(http.MethodPut, "/preferences/layouts/home", `{"layout":[{"i":"tasks","x":0,"y":0,"w":6,"h":4}]}`, cookies...))
	if rec.Code != http.StatusOK {
		t.Fatalf("set layout = %d %s", rec.Code, rec.Body.String())
	}
	rec = gw.serve(newRequest(http.MethodGet, "/preferences/layouts/home", "", cookies...))
	if !strings.Contains(rec.Body.String(), `"i":"tasks"`) {
		t.Fatalf("layout = %s", rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodPut, "/preferences/layouts/home", `{"layout":[{"i":"","w":1,"h":1}]}`, cookies...))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid layout status = %d", rec.Code)
	}

	rec = gw.serve(newRequest(http.MethodDelete, "/preferences/layouts/home", "", cookies...))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec.Code)
	}
	rec = gw.serve(newRequest(http.MethodGet, "/preferences/layouts/home", "", cookies...))
	if !strings.Contains(rec.Body.String(), `"layout":[]`) {
		t.Fatalf("layout after reset = %s", rec.Body.String())
	}
}

func TestModalSelectionFollowsSession(t *testing.T) {
	t.Parallel()

	modals := preferences.NewModals(time.Hour)
	gw := newTestGateway(t, homeAPI(), Dependencies{Modals: modals})
	cookies := []*http.Cookie{sessionCookie(), workspaceCookie("acme")}
	other := []*http.Cookie{{Name: sessioncookie.SessionName, Value: "session-token-2"}, workspaceCookie("acme")}

	rec := gw.serve(newRequest(http.MethodGet, "/preferences/modal", "", cookies...))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"open":false`) {
		t.Fatalf("initial modal = %d %s", rec.Code, rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodPut, "/preferences/modal", `{"modal":"create-task"}`, cookies...))
	if rec.Code != http.StatusOK {
		t.Fatalf("select modal = %d %s", rec.Code, rec.Body.String())
	}
	rec = gw.serve(newRequest(http.MethodGet, "/preferences/modal", "", cookies...))
	if !strings.Contains(rec.Body.String(), `"modal":"create-task"`) || !strings.Contains(rec.Body.String(), `"open":true`) {
		t.Fatalf("selected modal = %s", rec.Body.String())
	}
	rec = gw.serve(newRequest(http.MethodGet, "/preferences/modal", "", other...))
	if !strings.Contains(rec.Body.String(), `"open":false`) {
		t.Fatalf("other session modal = %s", rec.Body.String())
	}

	rec = gw.serve(newRequest(http.MethodPut, "/preferences/modal", `{"modal":"Not A Slug"}`, cookies...))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid modal status = %d", rec.Code)
	}

	rec = gw.serve(newRequest(http.MethodDelete, "/preferences/modal", "", cookies...))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("close modal status = %d", rec.Code)
	}
	if _, open := modals.Selected(testSession); open {
		t.Fatal("modal still open after close")
	}

	gw.serve(newRequest(http.MethodPut, "/preferences/modal", `{"modal":"invite-member"}`, cookies...))
	gw.serve(newRequest(http.MethodPost, "/logout", "", cookies...))
	if _, open := modals.Selected(testSession); open {
		t.Fatal("logout kept the modal selection")
	}
}

func TestLogoutDropsSessionCache(t *testing.T) {
	t.Parallel()

	gw := newTestGateway(t, homeAPI(), Dependencies{})
	cookies := []*http.Cookie{sessionCookie(), workspaceCookie("acme")}
	gw.serve(newRequest(http.MethodGet, "/acme/home", "", cookies...))
	if gw.sessions.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", gw.sessions.Len())
	}

	rec := gw.serve(newRequest(http.MethodPost, "/logout", "", cookies...))
	if got := rec.Header().Get("Location"); rec.Code != http.StatusSeeOther || got != "/login" {
		t.Fatalf("response = %d %q", rec.Code, got)
	}
	if gw.sessions.Len() != 0 {
		t.Fatalf("sessions = %d, want 0", gw.sessions.Len())
	}
	for _, name := range []string{sessioncookie.SessionName, sessioncookie.WorkspaceName} {
		cookie := findCookie(rec, name)
		if cookie == nil || cookie.MaxAge >= 0 {
			t.Fatalf("%s cookie = %+v, want expired", name, cookie)
		}
	}
}

func TestAPIProxyForwardsUnchanged(t *testing.T) {
	t.Parallel()

	var gotPath, gotQuery, gotCookie string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if cookie, err := r.Cookie(sessioncookie.SessionName); err == nil {
			gotCookie = cookie.Value
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(upstream.Close)
	target, err := url.Parse(upstream.URL)
	if err != nil {
		t.Fatalf("parse upstream: %v", err)
	}

	gw := newTestGateway(t, apiclienttest.New(), Dependencies{ProxyTarget: target})
	rec := gw.serve(newRequest(http.MethodGet, "/api/v1/spaces/s1?archived=true", "", sessionCookie()))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"ok":true}` {
		t.Fatalf("proxy response = %d %s", rec.Code, rec.Body.String())
	}
	if gotPath != "/api/v1/spaces/s1" || gotQuery != "archived=true" || gotCookie != testSession {
		t.Fatalf("upstream saw path=%q query=%q cookie=%q", gotPath, gotQuery, gotCookie)
	}
}

func TestAPIProxyUpstreamDown(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.NotFoundHandler())
	target, _ := url.Parse(upstream.URL)
	upstream.Close()

	gw := newTestGateway(t, apiclienttest.New(), Dependencies{ProxyTarget: target})
	rec := gw.serve(newRequest(http.MethodGet, "/api/v1/users/me", ""))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadGateway)
	}
}
