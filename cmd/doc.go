// Package cmd provides the command-line interface for mcp-dockhand.
//
// Subcommands:
//   - serve: starts the MCP server (the default when no subcommand is given)
//   - version: prints the application version
//   - self-update: replaces the binary with the latest GitHub release
//
// Command Structure:
//
//	mcp-dockhand [flags]                 # Starts the MCP server (default)
//	mcp-dockhand serve [flags]           # Explicitly starts the MCP server
//	mcp-dockhand version                 # Shows version information
//	mcp-dockhand self-update             # Updates to latest release
//
// The serve command reads the Dockhand connection from DOCKHAND_URL,
// DOCKHAND_USER, DOCKHAND_PASS, DOCKHAND_TIMEOUT and DOCKHAND_READ_ONLY.
// Flags override the environment except for the password, which is only
// read from the environment.
//
// Transport Configuration Examples:
//
//	mcp-dockhand serve --transport stdio
//	mcp-dockhand serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-dockhand serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The HTTP transports also serve /healthz, /readyz and /healthz/detailed, and
// honour ALLOWED_ORIGINS and ENABLE_HSTS. Prometheus metrics are served on a
// separate listener (--metrics-addr) when INSTRUMENTATION_ENABLED=true.
package cmd
