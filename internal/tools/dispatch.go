package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/giantswarm/mcp-dockhand/internal/logging"
	"github.com/giantswarm/mcp-dockhand/internal/server"
)

// Dispatcher routes tool calls through the registry to the Dockhand client.
type Dispatcher struct {
	registry *Registry
	sc       *server.ServerContext
	handlers map[string]mcpserver.ToolHandlerFunc
}

// NewDispatcher creates a dispatcher over registry using the client and
// settings carried by sc.
func NewDispatcher(sc *server.ServerContext, registry *Registry) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		sc:       sc,
		handlers: make(map[string]mcpserver.ToolHandlerFunc, registry.Len()),
	}
	for _, desc := range registry.All() {
		d.handlers[desc.Name()] = WrapWithAuditLogging(desc, d.handle, sc)
	}
	return d
}

// Register adds every tool to s.
func (d *Dispatcher) Register(s *mcpserver.MCPServer) {
	for _, desc := range d.registry.All() {
		s.AddTool(desc.Tool, d.handlers[desc.Name()])
	}
}

// Invoke runs one tool call and always returns a result; failures are
// reported as structured error results rather than Go errors.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	handler, ok := d.handlers[name]
	if !ok {
		d.sc.Logger().Warn("unknown tool requested", logging.Tool(name))
		return ErrorResult(name, fmt.Errorf("%w: %q", ErrUnknownTool, name))
	}

	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args

	result, _ := handler(ctx, request)
	return result
}

// handle is the ToolHandler behind every registered tool.
func (d *Dispatcher) handle(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	name := request.Params.Name

	desc, err := d.registry.Resolve(name)
	if err != nil {
		return nil, err
	}

	if err := CheckMutatingOperation(sc.ReadOnly(), desc); err != nil {
		return nil, err
	}

	args := Args(request.GetArguments())
	if args == nil {
		args = Args{}
	}
	if err := Validate(desc, args); err != nil {
		return nil, err
	}

	req, err := desc.Build(args)
	if err != nil {
		return nil, err
	}
	req.Env = args.Env()

	resp, err := sc.DockhandClient().Do(ctx, req)
	if err != nil {
		sc.Logger().Debug("dockhand request failed",
			logging.Tool(name),
			logging.Method(req.Method),
			logging.Path(req.Path),
			logging.SanitizedErr(err),
		)
		return nil, err
	}

	return mcp.NewToolResultText(string(resp.Payload)), nil
}
