// Package catalog assembles the complete Dockhand tool registry.
package catalog

import (
	"github.com/giantswarm/mcp-dockhand/internal/tools"
	"github.com/giantswarm/mcp-dockhand/internal/tools/container"
	"github.com/giantswarm/mcp-dockhand/internal/tools/image"
	"github.com/giantswarm/mcp-dockhand/internal/tools/network"
	"github.com/giantswarm/mcp-dockhand/internal/tools/stack"
	"github.com/giantswarm/mcp-dockhand/internal/tools/system"
	"github.com/giantswarm/mcp-dockhand/internal/tools/volume"
)

// NewRegistry returns a registry holding every Dockhand tool.
func NewRegistry() (*tools.Registry, error) {
	return tools.NewRegistry(
		system.Descriptors(),
		container.Descriptors(),
		stack.Descriptors(),
		image.Descriptors(),
		volume.Descriptors(),
		network.Descriptors(),
	)
}
