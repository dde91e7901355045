// Package server provides the ServerContext pattern and related infrastructure
// for the MCP Dockhand server.
//
// This package implements the core server architecture patterns including:
//
//   - ServerContext: Encapsulates all server dependencies and lifecycle management
//   - Functional Options: Clean dependency injection and configuration
//   - Health checks: Liveness, readiness and detailed status endpoints
//   - Metrics server: A dedicated Prometheus listener
//
// The ServerContext Pattern:
//
// The ServerContext carries the Dockhand transport client, the structured
// logger, the server configuration and the instrumentation provider. Tool
// dispatch reads everything it needs from it, which keeps the tool packages
// free of globals and easy to test against a fake Dockhand.
//
// Example usage:
//
//	serverCtx, err := server.NewServerContext(ctx,
//		server.WithDockhandClient(client),
//		server.WithLogger(logger),
//		server.WithReadOnly(true),
//		server.WithInstrumentationProvider(provider),
//	)
//	if err != nil {
//		return err
//	}
//	defer serverCtx.Shutdown()
//
// Functional Options Pattern:
//
//   - WithDockhandClient: Inject the Dockhand transport client
//   - WithLogger: Inject a custom slog logger
//   - WithConfig: Provide complete configuration
//   - WithServerName / WithVersion: Set server identity
//   - WithReadOnly: Reject mutating tools
//   - WithInstrumentationProvider: Enable metrics and tracing
package server
