package dockhand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/giantswarm/mcp-dockhand/internal/logging"
)

const (
	tracerName = "github.com/giantswarm/mcp-dockhand/internal/dockhand"

	// envQueryParam carries the environment selector on every request.
	envQueryParam = "env"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 32 << 20
)

// Request describes a single call against the Dockhand REST API.
type Request struct {
	Method string
	// Path is the escaped request path, e.g. "/api/containers/abc/start".
	Path string
	// Route is a low-cardinality label for metrics and span names,
	// e.g. "/api/containers/{id}/start". Defaults to Path.
	Route string
	Query url.Values
	// Body is JSON-encoded unless it is already a json.RawMessage.
	Body any
	// Env selects a Dockhand environment. Empty means the default environment.
	Env string
}

func (r Request) route() string {
	if r.Route != "" {
		return r.Route
	}
	return r.Path
}

// Recorder receives request and login measurements.
type Recorder interface {
	RecordDockhandRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
	RecordDockhandLogin(ctx context.Context, result string)
}

// Login results reported to the Recorder.
const (
	LoginResultSuccess  = "success"
	LoginResultRejected = "rejected"
	LoginResultError    = "error"
)

// Client issues authenticated requests against one Dockhand instance.
// It is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     logging.Logger
	recorder   Recorder
	tracer     trace.Tracer
	userAgent  string

	mu         sync.RWMutex
	current    *session
	loginGroup singleflight.Group
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used by the client.
func WithLogger(logger logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = recorder
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is
// overwritten with the configured request timeout.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient validates cfg and returns a client for it.
// No network call is made until the first request.
func NewClient(cfg Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:       cfg,
		logger:    logging.DefaultLogger(),
		tracer:    otel.Tracer(tracerName),
		userAgent: "mcp-dockhand",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	c.httpClient.Timeout = cfg.Timeout

	return c, nil
}

// BaseURL returns the normalized Dockhand base URL.
func (c *Client) BaseURL() string {
	return c.cfg.URL
}

// HasCredentials reports whether the client authenticates against Dockhand.
func (c *Client) HasCredentials() bool {
	return c.cfg.HasCredentials()
}

// Do sends req to Dockhand and returns the normalized response.
//
// With credentials configured, the first call logs in. A 401 invalidates the
// session and triggers one re-login and one retry of req.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	sess, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	status, body, err := c.send(ctx, req, sess)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		if !c.cfg.HasCredentials() {
			return nil, &AuthenticationError{
				StatusCode: status,
				Reason:     "dockhand requires authentication but no credentials are configured",
			}
		}

		c.logger.Info("Dockhand session rejected, re-authenticating",
			logging.Method(req.Method), logging.Path(req.route()))

		sess, err = c.refreshSession(ctx, sess)
		if err != nil {
			return nil, err
		}

		status, body, err = c.send(ctx, req, sess)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			c.invalidate(sess)
			return nil, &AuthenticationError{
				StatusCode: status,
				Reason:     "request rejected again after re-authentication",
			}
		}
	}

	if status < 200 || status >= 300 {
		return nil, &UpstreamError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: status,
			Body:       string(body),
		}
	}

	return &Response{
		StatusCode: status,
		Payload:    normalizePayload(status, body),
	}, nil
}

// send performs one HTTP round trip. A non-nil error is always a *TransportError.
func (c *Client) send(ctx context.Context, req Request, sess *session) (int, []byte, error) {
	target := c.resolve(req)
	route := req.route()

	ctx, span := c.tracer.Start(ctx, "dockhand "+req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", route),
			attribute.String("dockhand.environment", req.Env),
		),
	)
	defer span.End()

	bodyReader, err := encodeBody(req.Body)
	if err != nil {
		span.SetStatus(codes.Error, "encode body")
		return 0, nil, &TransportError{Op: req.Method, URL: target, Err: fmt.Errorf("encode request body: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		span.SetStatus(codes.Error, "build request")
		return 0, nil, &TransportError{Op: req.Method, URL: target, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	sess.apply(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordRequest(ctx, req.Method, route, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		c.logger.Warn("Dockhand request failed",
			logging.Method(req.Method), logging.Path(route), logging.SanitizedErr(err))
		return 0, nil, &TransportError{Op: req.Method, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.recordRequest(ctx, req.Method, route, resp.StatusCode, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read body")
		return 0, nil, &TransportError{Op: req.Method, URL: target, Err: fmt.Errorf("read response body: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	} else {
		span.SetStatus(codes.Ok, "")
	}

	c.logger.Debug("Dockhand request completed",
		logging.Method(req.Method), logging.Path(route),
		logging.Environment(req.Env), logging.StatusCode(resp.StatusCode))

	return resp.StatusCode, body, nil
}

// resolve builds the absolute request URL including the env selector.
func (c *Client) resolve(req Request) string {
	query := url.Values{}
	for k, v := range req.Query {
		query[k] = append([]string(nil), v...)
	}
	if req.Env != "" {
		query.Set(envQueryParam, req.Env)
	}

	target := c.cfg.URL + req.Path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}

func encodeBody(body any) (io.Reader, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return bytes.NewReader(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

func (c *Client) recordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if c.recorder != nil {
		c.recorder.RecordDockhandRequest(ctx, method, route, status, d)
	}
}

func (c *Client) recordLogin(ctx context.Context, result string) {
	if c.recorder != nil {
		c.recorder.RecordDockhandLogin(ctx, result)
	}
}
