package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the mcp-dockhand package.
const TracerName = "github.com/giantswarm/mcp-dockhand"

// Span attribute keys for tool invocations.
const (
	// SpanAttrTool is the MCP tool name.
	SpanAttrTool = "mcp.tool"

	// SpanAttrReadOnly marks tools that do not mutate Dockhand state.
	SpanAttrReadOnly = "mcp.tool.read_only"

	// SpanAttrDestructive marks tools that remove Dockhand resources.
	SpanAttrDestructive = "mcp.tool.destructive"

	// SpanAttrErrorKind is the classified error kind of a failed invocation.
	SpanAttrErrorKind = "mcp.error_kind"

	// SpanAttrEnvironment is the Dockhand environment selector.
	SpanAttrEnvironment = "dockhand.environment"

	// SpanAttrEnvironmentType is the classified environment type.
	SpanAttrEnvironmentType = "dockhand.environment_type"
)

// SpanAttributeBuilder helps construct OpenTelemetry span attributes
// with consistent naming.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 6),
	}
}

// WithTool adds the MCP tool name attribute.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.String(SpanAttrTool, tool))
	return b
}

// WithEnvironment adds the environment selector and its classified type.
// Nothing is added for the default environment.
func (b *SpanAttributeBuilder) WithEnvironment(env string) *SpanAttributeBuilder {
	if env == "" {
		return b
	}
	b.attrs = append(b.attrs,
		attribute.String(SpanAttrEnvironment, env),
		attribute.String(SpanAttrEnvironmentType, ClassifyEnvironment(env)),
	)
	return b
}

// WithAnnotations adds the tool's read-only and destructive hints.
func (b *SpanAttributeBuilder) WithAnnotations(readOnly, destructive bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.Bool(SpanAttrReadOnly, readOnly),
		attribute.Bool(SpanAttrDestructive, destructive),
	)
	return b
}

// WithErrorKind adds the classified error kind.
func (b *SpanAttributeBuilder) WithErrorKind(kind string) *SpanAttributeBuilder {
	if kind != "" {
		b.attrs = append(b.attrs, attribute.String(SpanAttrErrorKind, kind))
	}
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for an MCP tool invocation.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the current span in context.
// Returns empty string if no valid span is present.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID from the current span in context.
// Returns empty string if no valid span is present.
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}
