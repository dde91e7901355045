// Package volume provides the Docker volume tools.
package volume

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

// DefaultDriver is used when create_volume omits driver.
const DefaultDriver = "local"

type createRequest struct {
	Name   string `json:"name"`
	Driver string `json:"driver"`
}

// Descriptors returns the volume tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_volumes",
			"List all Docker volumes",
			func(tools.Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/volumes"}, nil
			},
		),
		tools.Mutation("create_volume",
			"Create a new Docker volume",
			func(args tools.Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodPost,
					Path:   "/api/volumes",
					Body: createRequest{
						Name:   args.String("name"),
						Driver: args.StringOr("driver", DefaultDriver),
					},
				}, nil
			},
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Volume name"),
			),
			mcp.WithString("driver",
				mcp.Description("Volume driver"),
				mcp.DefaultString(DefaultDriver),
			),
		),
		tools.Destructive("remove_volume",
			"Remove a Docker volume",
			func(args tools.Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodDelete,
					Path:   "/api/volumes/" + tools.Segment(args.String("volume_name")),
					Route:  "/api/volumes/{name}",
				}, nil
			},
			mcp.WithString("volume_name",
				mcp.Required(),
				mcp.Description("The volume name"),
			),
		),
	}
}
