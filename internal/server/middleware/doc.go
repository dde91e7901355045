// Package middleware provides HTTP middleware for the MCP Dockhand server's
// network transports: request metrics, access logging, security headers and CORS.
package middleware
