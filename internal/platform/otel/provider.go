package otel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/taskspace/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// UpstreamKey tags spans with the REST API origin the gateway fronts.
const UpstreamKey = attribute.Key("taskspace.api.base_url")

// Service describes the process reported on every exported span.
type Service struct {
	Name        string
	Version     string
	Environment string
	// Upstream is the API origin requests are forwarded to.
	Upstream string
}

// Attributes returns the resource attributes of s, skipping empty fields.
func (s Service) Attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{semconv.ServiceName(strings.TrimSpace(s.Name))}
	if v := strings.TrimSpace(s.Version); v != "" {
		attrs = append(attrs, semconv.ServiceVersion(v))
	}
	if v := strings.TrimSpace(s.Environment); v != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(v))
	}
	if v := strings.TrimSpace(s.Upstream); v != "" {
		attrs = append(attrs, UpstreamKey.String(v))
	}
	return attrs
}

// Settings are the exporter switches read from the environment.
type Settings struct {
	Enabled     string  `env:"TASKSPACE_OTEL_ENABLED"`
	Endpoint    string  `env:"TASKSPACE_OTEL_ENDPOINT"`
	SampleRatio float64 `env:"TASKSPACE_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

// Exporting reports whether spans leave the process.
func (s Settings) Exporting() bool {
	if strings.EqualFold(strings.TrimSpace(s.Enabled), "false") {
		return false
	}
	return strings.TrimSpace(s.Endpoint) != ""
}

// Sampler samples root spans at SampleRatio and follows the parent otherwise.
func (s Settings) Sampler() (sdktrace.Sampler, error) {
	if s.SampleRatio < 0 || s.SampleRatio > 1 {
		return nil, fmt.Errorf("otel sample ratio must be between 0 and 1, got %v", s.SampleRatio)
	}
	root := sdktrace.TraceIDRatioBased(s.SampleRatio)
	if s.SampleRatio == 1 {
		root = sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(root), nil
}

// Setup installs the trace propagator and, when an endpoint is configured,
// an OTLP/HTTP tracer provider describing svc.
//
// The W3C trace-context propagator is always installed so inbound trace
// headers reach the upstream API. Without an exporter the returned shutdown
// is a no-op.
func Setup(ctx context.Context, svc Service) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	if strings.TrimSpace(svc.Name) == "" {
		return noop, errors.New("service name is required")
	}
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var settings Settings
	if err := config.ParseEnv(&settings); err != nil {
		return noop, err
	}
	if !settings.Exporting() {
		return noop, nil
	}
	sampler, err := settings.Sampler()
	if err != nil {
		return noop, err
	}
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(strings.TrimSpace(settings.Endpoint)),
	)
	if err != nil {
		return noop, fmt.Errorf("otel exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(svc.Attributes()...))
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
