package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-dockhand/internal/logging"
	"github.com/giantswarm/mcp-dockhand/internal/server"
	"github.com/giantswarm/mcp-dockhand/internal/server/middleware"
)

// httpTransport is an MCP transport mounted on one or more HTTP paths.
type httpTransport struct {
	name     string
	handlers map[string]http.Handler
	shutdown func(context.Context) error
}

// newHTTPHandler mounts the transport and health endpoints on a mux and wraps
// it with the hardening, logging and metrics middleware.
func newHTTPHandler(sc *server.ServerContext, transport httpTransport, config HTTPServeConfig) http.Handler {
	mux := http.NewServeMux()

	health := server.NewHealthChecker(sc)
	health.RegisterHealthEndpoints(mux)

	routes := []string{"/healthz", "/readyz", "/healthz/detailed"}
	for path, h := range transport.handlers {
		mux.Handle(path, h)
		routes = append(routes, path)
	}

	return middleware.Chain(mux,
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{EnableHSTS: config.EnableHSTS}),
		middleware.CORS(config.AllowedOrigins),
		middleware.MaxRequestSize(config.MaxRequestBytes),
		middleware.AccessLog(sc.Logger()),
		middleware.HTTPMetrics(sc.InstrumentationProvider(), routes...),
	)
}

// runHTTPTransport serves handler on addr until ctx is cancelled, then shuts
// down the transport and the listener within server.DefaultShutdownTimeout.
func runHTTPTransport(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler, transport httpTransport) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: server.DefaultReadHeaderTimeout,
		IdleTimeout:       server.DefaultIdleTimeout,
		// No WriteTimeout: event streams stay open for the life of a session.
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	paths := make([]string, 0, len(transport.handlers))
	for path := range transport.handlers {
		paths = append(paths, path)
	}
	logger.Info("HTTP server starting",
		"transport", transport.name,
		"addr", addr,
		"mcp_endpoints", paths,
		"health_endpoints", []string{"/healthz", "/readyz", "/healthz/detailed"})

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server", "transport", transport.name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		if transport.shutdown != nil {
			if err := transport.shutdown(shutdownCtx); err != nil {
				logger.Warn("error shutting down MCP transport", logging.Err(err))
			}
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down %s server: %w", transport.name, err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("%s server stopped with error: %w", transport.name, err)
		}
		logger.Info("HTTP server stopped normally", "transport", transport.name)
	}

	logger.Info("HTTP server gracefully stopped", "transport", transport.name)
	return nil
}

// streamableHTTPTransport mounts the streamable HTTP transport on endpoint.
func streamableHTTPTransport(mcpSrv *mcpserver.MCPServer, endpoint string) httpTransport {
	h := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(endpoint),
	)
	return httpTransport{
		name:     transportStreamableHTTP,
		handlers: map[string]http.Handler{endpoint: h},
		shutdown: h.Shutdown,
	}
}

// runStreamableHTTPServer runs the server with the streamable HTTP transport.
func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, config ServeConfig, httpConfig HTTPServeConfig) error {
	transport := streamableHTTPTransport(mcpSrv, config.HTTPEndpoint)
	handler := newHTTPHandler(sc, transport, httpConfig)
	return runHTTPTransport(ctx, sc.Logger(), config.HTTPAddr, handler, transport)
}
