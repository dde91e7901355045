package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// SecurityHeadersConfig holds configuration for security headers middleware
type SecurityHeadersConfig struct {
	// EnableHSTS sends Strict-Transport-Security even on plain HTTP, for
	// deployments where TLS terminates at a reverse proxy.
	EnableHSTS bool
}

// SecurityHeaders adds defensive response headers. The MCP endpoints only
// serve JSON and event streams, so the content policy denies everything else.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")

			if r.TLS != nil || config.EnableHSTS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// corsAllowHeaders are the request headers MCP clients send over streamable HTTP and SSE.
const corsAllowHeaders = "Authorization, Content-Type, Mcp-Session-Id, Mcp-Protocol-Version, Last-Event-ID"

// CORS answers browser preflights for the listed origins. With no origins
// configured, cross-origin browser access is not granted at all.
// Preflights from unlisted origins are rejected with 403.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := origin != "" && slices.Contains(allowedOrigins, origin)

			if origin != "" {
				w.Header().Add("Vary", "Origin")
			}

			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", "Mcp-Session-Id")
				h.Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if !allowed {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ValidateAllowedOrigins parses a comma-separated origin list into
// normalized scheme://host[:port] values. Duplicates are dropped.
func ValidateAllowedOrigins(origins string) ([]string, error) {
	var validated []string

	for _, raw := range strings.Split(origins, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid origin %q: %w", raw, err)
		}
		switch {
		case u.Scheme != "http" && u.Scheme != "https":
			return nil, fmt.Errorf("origin %q must use http or https scheme", raw)
		case u.Host == "":
			return nil, fmt.Errorf("origin %q must include a host", raw)
		case u.Path != "" && u.Path != "/", u.RawQuery != "", u.Fragment != "":
			return nil, fmt.Errorf("origin %q must not include a path, query or fragment", raw)
		}

		normalized := u.Scheme + "://" + strings.ToLower(u.Host)
		if !slices.Contains(validated, normalized) {
			validated = append(validated, normalized)
		}
	}

	return validated, nil
}

// DefaultMaxRequestBytes bounds MCP request bodies. Compose files are the
// largest legitimate payload.
const DefaultMaxRequestBytes int64 = 4 << 20

// MaxRequestSize limits request bodies to maxBytes. Requests that declare a
// larger Content-Length are rejected with 413 before reaching the handler;
// bodies of unknown length fail on read once the limit is crossed.
// A non-positive limit disables the check.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
