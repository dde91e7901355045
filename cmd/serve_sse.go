package cmd

import (
	"context"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-dockhand/internal/server"
)

// sseTransport mounts the SSE stream and its message endpoint.
func sseTransport(mcpSrv *mcpserver.MCPServer, sseEndpoint, messageEndpoint string) httpTransport {
	sseServer := mcpserver.NewSSEServer(mcpSrv,
		mcpserver.WithSSEEndpoint(sseEndpoint),
		mcpserver.WithMessageEndpoint(messageEndpoint),
	)
	return httpTransport{
		name: transportSSE,
		handlers: map[string]http.Handler{
			sseEndpoint:     sseServer.SSEHandler(),
			messageEndpoint: sseServer.MessageHandler(),
		},
		shutdown: sseServer.Shutdown,
	}
}

// runSSEServer runs the server with the SSE transport.
func runSSEServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, config ServeConfig, httpConfig HTTPServeConfig) error {
	transport := sseTransport(mcpSrv, config.SSEEndpoint, config.MessageEndpoint)
	handler := newHTTPHandler(sc, transport, httpConfig)
	return runHTTPTransport(ctx, sc.Logger(), config.HTTPAddr, handler, transport)
}
