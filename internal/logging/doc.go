// Package logging provides structured logging utilities for the mcp-dockhand application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Consistent attribute naming across the codebase
//   - Username anonymization and credential masking
//   - Host/URL sanitization for security
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithTool(slog.Default(), "list_containers")
//	logger.Info("dispatching tool call",
//	    logging.Environment("prod"),
//	    logging.Method("GET"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("logged in to dockhand",
//	    logging.UserHash(username),
//	    logging.Host(baseURL))
//
// # Security Considerations
//
//   - Dockhand usernames are hashed to prevent PII leakage while allowing correlation
//   - Base URLs have IP addresses redacted to prevent topology leakage
//   - Passwords, session cookies and tokens are never logged directly
package logging
