package tools

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-dockhand/internal/instrumentation"
	"github.com/giantswarm/mcp-dockhand/internal/logging"
	"github.com/giantswarm/mcp-dockhand/internal/server"
)

// ToolHandler is the signature for MCP tool handler functions that take ServerContext.
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// WrapWithAuditLogging wraps a tool handler with the per-invocation audit trail.
// The wrapper:
//   - starts a tool span annotated with the environment and tool hints
//   - records tool_invocations_total and tool_invocation_duration_seconds
//   - writes one audit log line per call
//   - converts a Go error from handler into a structured error result
//
// The returned handler never returns a Go error.
func WrapWithAuditLogging(d Descriptor, handler ToolHandler, sc *server.ServerContext) mcpserver.ToolHandlerFunc {
	name := d.Name()

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		env := Args(request.GetArguments()).Env()

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithEnvironment(env).
			WithAnnotations(d.ReadOnly, d.Destructive).
			Build()
		ctx, span := instrumentation.StartToolSpan(ctx, name, attrs...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(name).
			WithEnvironment(env).
			WithAnnotations(d.ReadOnly, d.Destructive).
			WithSpanContext(ctx)

		result, err := handler(ctx, request, sc)
		if err != nil {
			result = ErrorResult(name, err)
		}
		if result == nil {
			result = ErrorResult(name, errors.New("tool handler returned no result"))
		}

		if payload, failed := ParseErrorResult(result); failed {
			invocation.CompleteWithError(payload.Kind, errors.New(payload.Message))
			span.SetAttributes(instrumentation.NewSpanAttributeBuilder().WithErrorKind(payload.Kind).Build()...)
			instrumentation.SetSpanError(span, errors.New(payload.Message))
		} else if result.IsError {
			invocation.CompleteWithError(KindInternal, errors.New("tool returned an unstructured error"))
			instrumentation.SetSpanError(span, errors.New("tool returned an unstructured error"))
		} else {
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		recordInvocation(ctx, sc, invocation)
		return result, nil
	}
}

func recordInvocation(ctx context.Context, sc *server.ServerContext, ti *instrumentation.ToolInvocation) {
	if provider := sc.InstrumentationProvider(); provider != nil {
		provider.Metrics().RecordToolInvocation(ctx, ti.Tool, ti.Environment, ti.Status(), ti.ErrorKind, ti.Duration)
	}

	if audit := sc.AuditLogger(); audit != nil {
		audit.LogToolInvocation(ctx, ti)
	}

	sc.Logger().Debug("tool call finished",
		logging.Tool(ti.Tool),
		logging.Environment(ti.Environment),
		logging.Status(ti.Status()),
		slog.Duration(logging.KeyDuration, ti.Duration),
	)
}
