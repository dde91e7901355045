// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-dockhand server.
//
// This package enables observability through:
//   - OpenTelemetry metrics for MCP tool invocations, Dockhand API calls and logins
//   - Distributed tracing for tool invocations and outbound Dockhand requests
//   - Prometheus metrics export via the /metrics endpoint
//   - OTLP export support for modern observability platforms
//   - Structured audit records for every tool invocation
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of inbound HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of inbound HTTP request durations
//
// Tool Metrics:
//   - tool_invocations_total: Counter of MCP tool calls by tool, status and error_kind
//   - tool_invocation_duration_seconds: Histogram of MCP tool call durations
//
// Dockhand Metrics:
//   - dockhand_requests_total: Counter of outbound Dockhand requests by method, route and status
//   - dockhand_request_duration_seconds: Histogram of outbound Dockhand request durations
//   - dockhand_logins_total: Counter of Dockhand logins by result
//
// # Cardinality Considerations
//
// Dockhand routes are recorded as templates ("/api/containers/{id}"), never as
// concrete paths. Environment selectors are free-form, so they are only
// recorded when detailed labels are enabled, and then only as a classified
// environment type (see ClassifyEnvironment).
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: false)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - METRICS_DETAILED_LABELS: Include the environment_type label (default: false)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_EXPORTER_OTLP_INSECURE: Use plain HTTP for OTLP export
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-dockhand)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	client, err := dockhand.NewClient(cfg, dockhand.WithRecorder(provider.Metrics()))
package instrumentation
