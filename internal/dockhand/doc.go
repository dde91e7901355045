// Package dockhand implements the transport client for the Dockhand REST API.
//
// The client owns the only upstream session of the process. When credentials
// are configured it logs in lazily before the first resource call, reuses the
// session cookies (and bearer token, when the login response carries one) for
// every request, and on a 401 performs exactly one re-login followed by one
// retry of the original request.
//
// Concurrent callers never log in twice for the same expired session: the
// refresh runs under a singleflight group and every waiter receives the
// session produced by the single in-flight login.
//
// Failures are reported as one of three typed errors:
//
//   - *AuthenticationError: the login failed, or a request was rejected again
//     after re-authenticating, or Dockhand requires a session and no
//     credentials are configured
//   - *TransportError: the request never produced an HTTP response
//     (timeout, refused connection, DNS failure)
//   - *UpstreamError: Dockhand answered with a non-2xx status other than 401
//
// Invalid configuration is reported at construction time as *ConfigError,
// which matches ErrConfiguration with errors.Is.
package dockhand
