// Package web parses gateway flags and launches the web service.
package web

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/taskspace/internal/platform/cmd"
	"github.com/louisbranch/taskspace/internal/platform/otel"
	"github.com/louisbranch/taskspace/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr       string        `env:"TASKSPACE_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL     string        `env:"TASKSPACE_WEB_API_BASE_URL" envDefault:"http://localhost:4000"`
	APIPrefix      string        `env:"TASKSPACE_WEB_API_PREFIX" envDefault:"/api/v1"`
	APITimeout     time.Duration `env:"TASKSPACE_WEB_API_TIMEOUT" envDefault:"10s"`
	ProxyPrefix    string        `env:"TASKSPACE_WEB_PROXY_PREFIX" envDefault:"/api"`
	Env            string        `env:"TASKSPACE_WEB_ENV" envDefault:"development"`
	PreferencesDB  string        `env:"TASKSPACE_WEB_PREFERENCES_DB" envDefault:"data/web-preferences.db"`
	QueryStaleTime time.Duration `env:"TASKSPACE_WEB_QUERY_STALE_TIME" envDefault:"0s"`
	QueryGCTime    time.Duration `env:"TASKSPACE_WEB_QUERY_GC_TIME" envDefault:"5m"`
	SessionIdleTTL time.Duration `env:"TASKSPACE_WEB_SESSION_CACHE_IDLE_TTL" envDefault:"30m"`
	// Version is reported on traces.
	Version string `env:"TASKSPACE_WEB_VERSION" envDefault:"dev"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Upstream REST API origin")
	fs.StringVar(&cfg.APIPrefix, "api-prefix", cfg.APIPrefix, "Upstream API path prefix")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout for one upstream API request")
	fs.StringVar(&cfg.ProxyPrefix, "proxy-prefix", cfg.ProxyPrefix, "Browser-facing API proxy prefix")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "Deployment environment (development or production)")
	fs.StringVar(&cfg.PreferencesDB, "preferences-db", cfg.PreferencesDB, "SQLite path for preferences; empty keeps them in memory")
	fs.DurationVar(&cfg.QueryStaleTime, "query-stale-time", cfg.QueryStaleTime, "How long cached reads stay fresh")
	fs.DurationVar(&cfg.QueryGCTime, "query-gc-time", cfg.QueryGCTime, "How long unused cached reads are kept")
	fs.DurationVar(&cfg.SessionIdleTTL, "session-cache-idle-ttl", cfg.SessionIdleTTL, "Idle lifetime of a session cache")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	switch cfg.Env {
	case "development", "production":
	default:
		return Config{}, fmt.Errorf("env must be development or production, got %q", cfg.Env)
	}
	if cfg.QueryStaleTime < 0 || cfg.QueryGCTime < 0 || cfg.SessionIdleTTL < 0 || cfg.APITimeout < 0 {
		return Config{}, fmt.Errorf("durations must not be negative")
	}
	return cfg, nil
}

// Service describes the gateway to telemetry.
func (c Config) Service() otel.Service {
	return otel.Service{
		Name:        entrypoint.ServiceWeb,
		Version:     c.Version,
		Environment: c.Env,
		Upstream:    c.APIBaseURL,
	}
}

// Run starts the web gateway.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, cfg.Service(), func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:       cfg.HTTPAddr,
			APIBaseURL:     cfg.APIBaseURL,
			APIPrefix:      cfg.APIPrefix,
			APITimeout:     cfg.APITimeout,
			ProxyPrefix:    cfg.ProxyPrefix,
			Production:     cfg.Env == "production",
			PreferencesDB:  cfg.PreferencesDB,
			QueryStaleTime: cfg.QueryStaleTime,
			QueryGCTime:    cfg.QueryGCTime,
			SessionIdleTTL: cfg.SessionIdleTTL,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
