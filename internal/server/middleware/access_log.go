package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/giantswarm/mcp-dockhand/internal/logging"
)

// AccessLog logs one debug line per HTTP request. Query strings are not
// logged since SSE message endpoints carry session identifiers there.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			level := slog.LevelDebug
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				logging.Method(r.Method),
				logging.Path(r.URL.Path),
				logging.StatusCode(rec.status),
				slog.Duration(logging.KeyDuration, time.Since(start)),
			)
		})
	}
}
