package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/taskspace/internal/platform/timeouts"
	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/observability"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/taskspace/internal/services/web/preferences"
	"github.com/louisbranch/taskspace/internal/services/web/query"
	"github.com/louisbranch/taskspace/internal/services/web/resource/dashboard"
	"github.com/louisbranch/taskspace/internal/services/web/resource/notification"
	"github.com/louisbranch/taskspace/internal/services/web/resource/space"
	"github.com/louisbranch/taskspace/internal/services/web/resource/user"
	"github.com/louisbranch/taskspace/internal/services/web/resource/workspace"
	"github.com/louisbranch/taskspace/internal/services/web/routegate"
	"github.com/louisbranch/taskspace/internal/services/web/storage"
	"github.com/louisbranch/taskspace/internal/services/web/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config defines startup inputs for the gateway.
type Config struct {
	HTTPAddr string
	// APIBaseURL is the upstream REST API origin.
	APIBaseURL string
	// APIPrefix roots every upstream application endpoint.
	APIPrefix  string
	APITimeout time.Duration
	// ProxyPrefix is the browser-facing path forwarded to the upstream API.
	ProxyPrefix string
	// Production marks written cookies Secure.
	Production bool
	// PreferencesDB is the SQLite path for preferences; empty keeps them in
	// memory.
	PreferencesDB  string
	QueryStaleTime time.Duration
	QueryGCTime    time.Duration
	SessionIdleTTL time.Duration
}

// Dependencies are the collaborators NewHandler wires into routes.
type Dependencies struct {
	API         apiclient.Caller
	Sessions    *query.Registry
	Preferences storage.Store
	// Modals holds open modal selections; nil builds one from SessionIdleTTL.
	Modals *preferences.Modals
	// ProxyTarget is the upstream origin for the API proxy; nil disables it.
	ProxyTarget *url.URL
	// ProxyTransport overrides the proxy round tripper.
	ProxyTransport http.RoundTripper
	Logger         *log.Logger
}

// Server hosts the gateway HTTP surface and lifecycle.
type Server struct {
	httpAddr    string
	httpServer  *http.Server
	sessions    *query.Registry
	preferences storage.Store
}

type handler struct {
	secure        bool
	sessions      *query.Registry
	preferences   storage.Store
	modals        *preferences.Modals
	users         *user.Queries
	workspaces    *workspace.Queries
	spaces        *space.Queries
	dashboards    *dashboard.Queries
	notifications *notification.Queries
}

// NewHandler builds the root handler.
//
// Middleware order is panic recovery, request id, tracing, request logging,
// then the route gate. Health checks bypass the gate.
func NewHandler(cfg Config, deps Dependencies) (http.Handler, error) {
	if deps.API == nil {
		return nil, errors.New("api caller is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("session registry is required")
	}
	if deps.Preferences == nil {
		return nil, errors.New("preference store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	modals := deps.Modals
	if modals == nil {
		modals = preferences.NewModals(cfg.SessionIdleTTL)
	}

	h := &handler{
		secure:        cfg.Production,
		sessions:      deps.Sessions,
		preferences:   deps.Preferences,
		modals:        modals,
		users:         user.NewQueries(user.NewService(deps.API)),
		workspaces:    workspace.NewQueries(workspace.NewService(deps.API)),
		spaces:        space.NewQueries(space.NewService(deps.API)),
		dashboards:    dashboard.NewQueries(dashboard.NewService(deps.API)),
		notifications: notification.NewQueries(notification.NewService(deps.API)),
	}

	proxyPrefix := normalizeProxyPrefix(cfg.ProxyPrefix)
	policy := routegate.DefaultPolicy(proxyPrefix)

	appMux := http.NewServeMux()
	appMux.HandleFunc("GET /workspace", h.handleWorkspace)
	appMux.HandleFunc("POST /workspace", h.handleSelectWorkspace)
	appMux.HandleFunc("GET /{workspace}/home", h.handleHome)
	appMux.HandleFunc("GET /preferences/theme", h.handleTheme)
	appMux.HandleFunc("PUT /preferences/theme", h.handleSetTheme)
	appMux.HandleFunc("GET /preferences/layouts/{page}", h.handleLayout)
	appMux.HandleFunc("PUT /preferences/layouts/{page}", h.handleSetLayout)
	appMux.HandleFunc("DELETE /preferences/layouts/{page}", h.handleResetLayout)
	appMux.HandleFunc("GET /preferences/modal", h.handleModal)
	appMux.HandleFunc("PUT /preferences/modal", h.handleSelectModal)
	appMux.HandleFunc("DELETE /preferences/modal", h.handleCloseModal)
	appMux.HandleFunc("POST /logout", h.handleLogout)

	gatedMux := http.NewServeMux()
	if deps.ProxyTarget != nil {
		gatedMux.Handle(proxyPrefix+"/", newAPIProxy(deps.ProxyTarget, deps.ProxyTransport, logger))
	}
	gatedMux.Handle("/", httpx.Chain(appMux, withAPIContext()))

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", handleHealth)
	rootMux.Handle("/", httpx.Chain(gatedMux, routegate.Middleware(policy, nil)))

	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		withTracing(),
		observability.RequestLogger(logger),
	), nil
}

func withTracing() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "web")
	}
}

// withAPIContext forwards the session token and request id to upstream calls.
func withAPIContext() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if session, ok := sessioncookie.ReadSession(r); ok {
				ctx = apiclient.WithSession(ctx, session)
			}
			ctx = apiclient.WithRequestID(ctx, r.Header.Get(httpx.RequestIDHeader))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func normalizeProxyPrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return "/api"
	}
	return "/" + prefix
}

// NewServer validates config and constructs a gateway server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Prefix:  cfg.APIPrefix,
		Timeout: cfg.APITimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	preferences, err := openPreferences(cfg.PreferencesDB)
	if err != nil {
		return nil, err
	}
	sessions := query.NewRegistry(query.Options{
		StaleTime: cfg.QueryStaleTime,
		GCTime:    cfg.QueryGCTime,
	}, cfg.SessionIdleTTL)

	handler, err := NewHandler(cfg, Dependencies{
		API:         client,
		Sessions:    sessions,
		Preferences: preferences,
		ProxyTarget: client.BaseURL(),
	})
	if err != nil {
		sessions.Close()
		_ = preferences.Close()
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		sessions:    sessions,
		preferences: preferences,
	}, nil
}

func openPreferences(path string) (storage.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return storage.NewMemoryStore(), nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create preferences dir: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preferences store: %w", err)
	}
	return store, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("web listening addr=%s", s.httpAddr)
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	s.sessions.Close()
	if s.preferences != nil {
		if err := s.preferences.Close(); err != nil {
			log.Printf("close preferences store: %v", err)
		}
	}
}
