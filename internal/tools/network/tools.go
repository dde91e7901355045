// Package network provides the Docker network tools.
package network

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

// DefaultDriver is used when create_network omits driver.
const DefaultDriver = "bridge"

type createRequest struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

// Descriptors returns the network tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_networks",
			"List all Docker networks",
			func(tools.Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/networks"}, nil
			},
		),
		tools.Mutation("create_network",
			"Create a new Docker network",
			func(args tools.Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodPost,
					Path:   "/api/networks",
					Body: createRequest{
						Name:   args.String("name"),
						Driver: args.StringOr("driver", DefaultDriver),
					},
				}, nil
			},
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Network name"),
			),
			mcp.WithString("driver",
				mcp.Description("Network driver (bridge, overlay, host, macvlan)"),
				mcp.DefaultString(DefaultDriver),
			),
		),
		tools.Destructive("remove_network",
			"Remove a Docker network",
			func(args tools.Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodDelete,
					Path:   "/api/networks/" + tools.Segment(args.String("network_id")),
					Route:  "/api/networks/{id}",
				}, nil
			},
			mcp.WithString("network_id",
				mcp.Required(),
				mcp.Description("The network ID or name"),
			),
		),
	}
}
