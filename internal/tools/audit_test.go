package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-dockhand/internal/server"
)

func createTestRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func TestWrapWithAuditLogging_Success(t *testing.T) {
	sc, logs := newTestServerContext(t, &recordingClient{})

	handler := func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("done"), nil
	}

	wrapped := WrapWithAuditLogging(testDescriptors()[0], handler, sc)
	result, err := wrapped(context.Background(), createTestRequest("list_things", nil))

	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Contains(t, logs.String(), `"success":true`)
	assert.Contains(t, logs.String(), `"read_only":true`)
}

func TestWrapWithAuditLogging_ConvertsGoErrors(t *testing.T) {
	sc, logs := newTestServerContext(t, &recordingClient{})

	handler := func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		return nil, errors.New("unexpected failure")
	}

	wrapped := WrapWithAuditLogging(testDescriptors()[1], handler, sc)
	result, err := wrapped(context.Background(), createTestRequest("create_thing", map[string]any{"name": "x"}))

	require.NoError(t, err, "wrapped handlers never return Go errors")
	require.True(t, result.IsError)

	payload, ok := ParseErrorResult(result)
	require.True(t, ok)
	assert.Equal(t, KindInternal, payload.Kind)
	assert.Equal(t, "unexpected failure", payload.Message)
	assert.Contains(t, logs.String(), `"error_kind":"InternalError"`)
}

func TestWrapWithAuditLogging_NilResult(t *testing.T) {
	sc, _ := newTestServerContext(t, &recordingClient{})

	handler := func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		return nil, nil
	}

	result, err := WrapWithAuditLogging(testDescriptors()[0], handler, sc)(context.Background(), createTestRequest("list_things", nil))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestWrapWithAuditLogging_UnstructuredError(t *testing.T) {
	sc, logs := newTestServerContext(t, &recordingClient{})

	handler := func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("plain text failure"), nil
	}

	result, err := WrapWithAuditLogging(testDescriptors()[0], handler, sc)(context.Background(), createTestRequest("list_things", nil))
	require.NoError(t, err)
	assert.Equal(t, "plain text failure", resultText(t, result), "unstructured results pass through")
	assert.Contains(t, logs.String(), `"error_kind":"InternalError"`)
}
