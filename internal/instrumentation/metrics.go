package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod          = "method"
	attrPath            = "path"
	attrRoute           = "route"
	attrStatus          = "status"
	attrTool            = "tool"
	attrErrorKind       = "error_kind"
	attrEnvironmentType = "environment_type"
	attrResult          = "result"
)

// durationBuckets are shared by every latency histogram.
var durationBuckets = []float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// Metrics provides methods for recording observability metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Inbound HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// MCP tool metrics
	toolInvocationsTotal   metric.Int64Counter
	toolInvocationDuration metric.Float64Histogram

	// Outbound Dockhand metrics
	dockhandRequestsTotal   metric.Int64Counter
	dockhandRequestDuration metric.Float64Histogram
	dockhandLoginsTotal     metric.Int64Counter

	// detailedLabels adds the classified environment type to tool metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether the environment_type label is included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocations_total counter: %w", err)
	}

	m.toolInvocationDuration, err = meter.Float64Histogram(
		"tool_invocation_duration_seconds",
		metric.WithDescription("MCP tool invocation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_invocation_duration_seconds histogram: %w", err)
	}

	m.dockhandRequestsTotal, err = meter.Int64Counter(
		"dockhand_requests_total",
		metric.WithDescription("Total number of requests sent to the Dockhand API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dockhand_requests_total counter: %w", err)
	}

	m.dockhandRequestDuration, err = meter.Float64Histogram(
		"dockhand_request_duration_seconds",
		metric.WithDescription("Dockhand API request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dockhand_request_duration_seconds histogram: %w", err)
	}

	m.dockhandLoginsTotal, err = meter.Int64Counter(
		"dockhand_logins_total",
		metric.WithDescription("Total number of Dockhand login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create dockhand_logins_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an inbound HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordToolInvocation records one MCP tool call. errorKind is empty on success.
//
// CARDINALITY NOTE: the environment selector is free-form. It is only recorded
// when detailedLabels is true, and then as its classified type.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, environment, status, errorKind string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolInvocationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
		attribute.String(attrErrorKind, errorKind),
	}
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrEnvironmentType, ClassifyEnvironment(environment)))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolInvocationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs[:2]...))
}

// RecordDockhandRequest records an outbound Dockhand API call. A zero statusCode
// means the request failed before a response was received.
func (m *Metrics) RecordDockhandRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration) {
	if m == nil || m.dockhandRequestsTotal == nil || m.dockhandRequestDuration == nil {
		return
	}

	status := strconv.Itoa(statusCode)
	if statusCode == 0 {
		status = StatusError
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrRoute, route),
		attribute.String(attrStatus, status),
	}

	m.dockhandRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dockhandRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDockhandLogin records a login attempt. Result is one of the
// dockhand.LoginResult* values.
func (m *Metrics) RecordDockhandLogin(ctx context.Context, result string) {
	if m == nil || m.dockhandLoginsTotal == nil {
		return
	}

	m.dockhandLoginsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
