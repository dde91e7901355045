package tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
)

// EnvParam is the optional environment selector every tool accepts.
const EnvParam = "env"

// BuildFunc maps validated arguments onto a Dockhand request.
type BuildFunc func(args Args) (dockhand.Request, error)

// Descriptor binds an MCP tool definition to the Dockhand request it issues.
type Descriptor struct {
	Tool        mcp.Tool
	ReadOnly    bool
	Destructive bool
	Build       BuildFunc
}

// Name returns the tool name.
func (d Descriptor) Name() string {
	return d.Tool.Name
}

// Query describes a tool that only reads from Dockhand.
func Query(name, description string, build BuildFunc, params ...mcp.ToolOption) Descriptor {
	return newDescriptor(name, description, true, false, build, params)
}

// Mutation describes a tool that changes state but does not delete anything.
func Mutation(name, description string, build BuildFunc, params ...mcp.ToolOption) Descriptor {
	return newDescriptor(name, description, false, false, build, params)
}

// Destructive describes a tool that removes or stops Dockhand objects.
func Destructive(name, description string, build BuildFunc, params ...mcp.ToolOption) Descriptor {
	return newDescriptor(name, description, false, true, build, params)
}

func newDescriptor(name, description string, readOnly, destructive bool, build BuildFunc, params []mcp.ToolOption) Descriptor {
	opts := make([]mcp.ToolOption, 0, len(params)+4)
	opts = append(opts, mcp.WithDescription(description))
	opts = append(opts, params...)
	opts = append(opts,
		mcp.WithString(EnvParam,
			mcp.Description("Dockhand environment to target (optional, uses the Dockhand default environment if not specified)"),
		),
		mcp.WithReadOnlyHintAnnotation(readOnly),
		mcp.WithDestructiveHintAnnotation(destructive),
	)

	return Descriptor{
		Tool:        mcp.NewTool(name, opts...),
		ReadOnly:    readOnly,
		Destructive: destructive,
		Build:       build,
	}
}
