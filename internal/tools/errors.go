package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
)

// Error kinds reported in structured error results and in the error_kind metric label.
const (
	KindConfiguration       = "ConfigurationError"
	KindUnknownTool         = "UnknownTool"
	KindInvalidArguments    = "InvalidArguments"
	KindOperationNotAllowed = "OperationNotAllowed"
	KindAuthentication      = "AuthenticationError"
	KindTransport           = "TransportError"
	KindUpstream            = "UpstreamError"
	KindInternal            = "InternalError"
)

var (
	// ErrUnknownTool is returned when a tool name is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrOperationNotAllowed is returned for mutating tools in read-only mode.
	ErrOperationNotAllowed = errors.New("operation not allowed")
)

// InvalidArgumentsError reports a tool argument that failed validation.
type InvalidArgumentsError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *InvalidArgumentsError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Reason)
	}
	return fmt.Sprintf("invalid argument %q for %s: %s", e.Field, e.Tool, e.Reason)
}

func invalidArg(tool, field, format string, a ...any) *InvalidArgumentsError {
	return &InvalidArgumentsError{Tool: tool, Field: field, Reason: fmt.Sprintf(format, a...)}
}

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var (
		invalid   *InvalidArgumentsError
		auth      *dockhand.AuthenticationError
		transport *dockhand.TransportError
		upstream  *dockhand.UpstreamError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnknownTool):
		return KindUnknownTool
	case errors.As(err, &invalid):
		return KindInvalidArguments
	case errors.Is(err, ErrOperationNotAllowed):
		return KindOperationNotAllowed
	case errors.As(err, &auth), errors.Is(err, dockhand.ErrAuthentication):
		return KindAuthentication
	case errors.As(err, &transport):
		return KindTransport
	case errors.As(err, &upstream):
		return KindUpstream
	case errors.Is(err, dockhand.ErrConfiguration):
		return KindConfiguration
	default:
		return KindInternal
	}
}

// ErrorPayload is the body of a structured error result.
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Tool    string `json:"tool,omitempty"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"status,omitempty"`
	Body    string `json:"body,omitempty"`
	Timeout bool   `json:"timeout,omitempty"`
}

type errorEnvelope struct {
	Error ErrorPayload `json:"error"`
}

// NewErrorPayload builds the structured description of err for tool.
func NewErrorPayload(tool string, err error) ErrorPayload {
	p := ErrorPayload{
		Kind:    ErrorKind(err),
		Message: err.Error(),
		Tool:    tool,
	}

	var (
		invalid   *InvalidArgumentsError
		auth      *dockhand.AuthenticationError
		transport *dockhand.TransportError
		upstream  *dockhand.UpstreamError
	)
	switch {
	case errors.As(err, &invalid):
		p.Field = invalid.Field
	case errors.As(err, &upstream):
		p.Status = upstream.StatusCode
		p.Body = upstream.Body
	case errors.As(err, &auth):
		p.Status = auth.StatusCode
	case errors.As(err, &transport):
		p.Timeout = transport.Timeout()
	}
	return p
}

// ErrorResult converts err into an MCP error result carrying a JSON payload
// of the form {"error":{"kind":...,"message":...}}.
func ErrorResult(tool string, err error) *mcp.CallToolResult {
	data, mErr := json.Marshal(errorEnvelope{Error: NewErrorPayload(tool, err)})
	if mErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(data))
}

// ParseErrorResult extracts the payload from a result produced by ErrorResult.
func ParseErrorResult(result *mcp.CallToolResult) (ErrorPayload, bool) {
	if result == nil || !result.IsError || len(result.Content) == 0 {
		return ErrorPayload{}, false
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return ErrorPayload{}, false
	}
	var env errorEnvelope
	if err := json.Unmarshal([]byte(text.Text), &env); err != nil || env.Error.Kind == "" {
		return ErrorPayload{}, false
	}
	return env.Error, true
}
