// Package apiclient is the gateway's adapter to the external REST API.
//
// Every call turns one typed request into one HTTP round trip. Credentials
// travel as the session cookie taken from the request context, JSON is the
// default body encoding, and failures come back as normalized errors from
// platform/errors.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/taskspace/internal/platform/timeouts"
	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"github.com/louisbranch/taskspace/internal/services/web/platform/sessioncookie"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultUserAgent = "taskspace-web"
	// maxResponseBytes caps how much of an upstream body is read.
	maxResponseBytes = 10 << 20
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API origin, for example "http://localhost:4000".
	BaseURL string
	// Prefix roots every application endpoint, for example "/api/v1".
	Prefix string
	// Timeout bounds one request; zero uses timeouts.APIRequest.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
	// Transport overrides the base round tripper. It is always wrapped with
	// OpenTelemetry instrumentation.
	Transport http.RoundTripper
}

// Caller sends one API request. Resource services depend on this instead of
// the concrete Client.
type Caller interface {
	Do(ctx context.Context, req Request, out any) error
}

// Path joins segments into an escaped request path, for example
// Path("spaces", id, "lists") is "/spaces/{id}/lists".
func Path(segments ...string) string {
	var b strings.Builder
	for _, segment := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(segment))
	}
	return b.String()
}

// Client performs typed requests against the REST API.
type Client struct {
	base      *url.URL
	prefix    string
	timeout   time.Duration
	userAgent string
	transport http.RoundTripper
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, fmt.Errorf("apiclient: base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: base url must be http or https, got %q", raw)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q has no host", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = timeouts.APIRequest
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		base:      base,
		prefix:    normalizePrefix(cfg.Prefix),
		timeout:   timeout,
		userAgent: userAgent,
		transport: otelhttp.NewTransport(transport),
	}, nil
}

// BaseURL returns a copy of the API origin.
func (c *Client) BaseURL() *url.URL {
	copied := *c.base
	return &copied
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is an escaped path relative to the configured prefix, for example
	// "/spaces/42". Build it with Path when segments come from input.
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil. Ignored when Multipart is set.
	Body any
	// Multipart sends a multipart/form-data body instead of JSON.
	Multipart *Multipart
	// Bearer forwards an explicit Authorization bearer token.
	Bearer string
}

// Do sends req and decodes a successful JSON response into out.
//
// A nil out discards the body. 204 and empty bodies leave out untouched.
// Errors are normalized: upstream error responses become application errors
// carrying the server message, network failures become transport errors.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.httpClient(ctx).Do(httpReq)
	if err != nil {
		if resp != nil && resp.Body != nil {
			defer resp.Body.Close()
			if appErr := responseError(resp); appErr != nil {
				return appErr
			}
		}
		return apperrors.Transport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.Transport(fmt.Errorf("read %s %s: %w", httpReq.Method, httpReq.URL.Path, err))
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Transport(fmt.Errorf("decode %s %s response: %w", httpReq.Method, httpReq.URL.Path, err))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}
	target := c.endpoint(req.Path, req.Query)

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Multipart != nil:
		encoded, boundaryType, err := req.Multipart.encode()
		if err != nil {
			return nil, fmt.Errorf("encode multipart body: %w", err)
		}
		body = encoded
		contentType = boundaryType
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, target, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = "api-" + uuid.NewString()
	}
	httpReq.Header.Set(httpx.RequestIDHeader, requestID)
	if bearer := strings.TrimSpace(req.Bearer); bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+bearer)
	}
	return httpReq, nil
}

// httpClient builds a client whose jar holds only this caller's session.
func (c *Client) httpClient(ctx context.Context) *http.Client {
	client := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
	}
	session := SessionFromContext(ctx)
	if session == "" {
		return client
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return client
	}
	jar.SetCookies(c.base, []*http.Cookie{{
		Name:  sessioncookie.SessionName,
		Value: session,
		Path:  "/",
	}})
	client.Jar = jar
	return client
}

func (c *Client) endpoint(path string, query url.Values) string {
	path = strings.TrimSpace(path)
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	escaped := strings.TrimRight(c.base.EscapedPath(), "/") + c.prefix + path
	target := *c.base
	target.RawPath = escaped
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		unescaped = escaped
		target.RawPath = ""
	}
	target.Path = unescaped
	target.RawQuery = ""
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}
	return target.String()
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return "/" + prefix
}
