// Package tools maps MCP tool calls onto Dockhand REST requests.
//
// Each tool is a Descriptor: an mcp.Tool definition (name, description,
// JSON schema and read-only/destructive hints) paired with a BuildFunc that
// turns validated arguments into a dockhand.Request. The per-area
// subpackages (system, container, stack, image, volume, network) hold the
// descriptor tables; the catalog subpackage assembles them into a Registry.
//
// A Dispatcher serves one call as:
//
//	resolve -> read-only guard -> validate -> build -> dockhand.Client.Do
//
// Successful calls return the Dockhand payload verbatim as text. Every
// failure becomes a structured error result:
//
//	{"error":{"kind":"UpstreamError","message":"...","tool":"get_container","status":404,"body":"..."}}
//
// where kind is one of UnknownTool, InvalidArguments, OperationNotAllowed,
// AuthenticationError, TransportError or UpstreamError.
package tools
