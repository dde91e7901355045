package middleware

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/giantswarm/mcp-dockhand/internal/instrumentation"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	sr.wroteHeader = true
	return sr.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// Flush keeps SSE and streamable HTTP responses streaming.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// HTTPMetrics creates middleware that records request count and latency per
// method, route and status.
//
// routes lists the paths the server actually serves. A request whose path is
// not a known route (or a session-scoped child of one) is recorded as "other",
// which keeps the path label bounded no matter what clients send.
//
// A nil or disabled provider turns the middleware into a pass-through.
func HTTPMetrics(provider *instrumentation.Provider, routes ...string) func(http.Handler) http.Handler {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if provider == nil || !provider.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			provider.Metrics().RecordHTTPRequest(
				r.Context(),
				r.Method,
				routeLabel(r.URL.Path, known),
				rec.status,
				time.Since(start),
			)
		})
	}
}

var (
	// MCP session identifiers appended to an endpoint path
	sessionSuffix = regexp.MustCompile(`^/[A-Za-z0-9_-]{8,64}$`)

	// UUIDs and 64-character Docker object IDs
	opaqueID = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}|[0-9a-f]{64}`)
)

// routeLabel maps a request path onto a bounded set of metric labels.
func routeLabel(path string, known map[string]struct{}) string {
	if path == "" {
		path = "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	if len(known) == 0 {
		return opaqueID.ReplaceAllString(path, ":id")
	}

	if _, ok := known[path]; ok {
		return path
	}

	for route := range known {
		if route == "/" {
			continue
		}
		if rest, ok := strings.CutPrefix(path, route); ok && sessionSuffix.MatchString(rest) {
			return route + "/:session"
		}
	}

	return "other"
}
