// Package timeouts defines shared timeout constants for the gateway.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// APIRequest caps one outbound request to the upstream REST API when no
// explicit timeout is configured.
const APIRequest = 10 * time.Second

// ProxyDial caps connection setup for the browser-facing API proxy.
const ProxyDial = 3 * time.Second

// TelemetryFlush bounds how long pending spans are exported at exit.
const TelemetryFlush = 5 * time.Second
