package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/taskspace/internal/platform/config"
	"github.com/louisbranch/taskspace/internal/platform/otel"
	"github.com/louisbranch/taskspace/internal/platform/timeouts"
)

// ServiceWeb names the browser-facing gateway for telemetry and logging.
const ServiceWeb = "web"

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// RunWithTelemetry sets up tracing for svc, runs run, and flushes pending
// spans once run returns.
func RunWithTelemetry(ctx context.Context, svc otel.Service, run func(context.Context) error) error {
	if strings.TrimSpace(svc.Name) == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, svc)
	if err != nil {
		return fmt.Errorf("%s telemetry: %w", svc.Name, err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), timeouts.TelemetryFlush)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("otel shutdown service=%s err=%v", svc.Name, err)
		}
	}()
	return run(ctx)
}
