// Package apiclienttest provides a scripted apiclient.Caller for tests.
package apiclienttest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/louisbranch/taskspace/internal/services/web/apiclient"
	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
)

// Response is the scripted outcome of one route.
type Response struct {
	// Body is JSON-encoded into the caller's out value.
	Body any
	Err  error
}

// Caller records requests and answers them from a route table keyed by
// "METHOD /path".
type Caller struct {
	mu       sync.Mutex
	routes   map[string]Response
	requests []apiclient.Request
}

// New builds an empty Caller; unknown routes answer 404.
func New() *Caller {
	return &Caller{routes: map[string]Response{}}
}

// On scripts the response for method and path.
func (c *Caller) On(method, path string, response Response) *Caller {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes[route(method, path)] = response
	return c
}

// Do implements apiclient.Caller.
func (c *Caller) Do(_ context.Context, req apiclient.Request, out any) error {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	response, ok := c.routes[route(req.Method, req.Path)]
	c.mu.Unlock()

	if !ok {
		return apperrors.Application(http.StatusNotFound, "no route for "+route(req.Method, req.Path))
	}
	if response.Err != nil {
		return response.Err
	}
	if out == nil || response.Body == nil {
		return nil
	}
	encoded, err := json.Marshal(response.Body)
	if err != nil {
		return fmt.Errorf("apiclienttest: encode body: %w", err)
	}
	return json.Unmarshal(encoded, out)
}

// Requests returns every recorded request in order.
func (c *Caller) Requests() []apiclient.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]apiclient.Request(nil), c.requests...)
}

// Count returns how many requests hit method and path.
func (c *Caller) Count(method, path string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	want := route(method, path)
	total := 0
	for _, req := range c.requests {
		if route(req.Method, req.Path) == want {
			total++
		}
	}
	return total
}

func route(method, path string) string {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + path
}
