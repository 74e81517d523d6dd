package web

import (
	"log"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/louisbranch/taskspace/internal/platform/timeouts"
	apperrors "github.com/louisbranch/taskspace/internal/services/web/platform/errors"
	"github.com/louisbranch/taskspace/internal/services/web/platform/httpx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// newAPIProxy forwards browser API calls to the upstream origin. Path, query,
// headers, and cookies pass through unchanged.
func newAPIProxy(target *url.URL, transport http.RoundTripper, logger *log.Logger) http.Handler {
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         (&net.Dialer{Timeout: timeouts.ProxyDial}).DialContext,
			TLSHandshakeTimeout: timeouts.ProxyDial,
		}
	}
	upstream := *target
	return &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.Out.URL.Scheme = upstream.Scheme
			r.Out.URL.Host = upstream.Host
			r.Out.Host = upstream.Host
			r.SetXForwarded()
		},
		Transport: otelhttp.NewTransport(transport),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Printf("api proxy failed method=%s path=%s err=%v", r.Method, r.URL.Path, err)
			httpx.WriteError(w, apperrors.Transport(err))
		},
	}
}
