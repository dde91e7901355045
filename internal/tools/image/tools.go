// Package image provides the Docker image tools, including vulnerability scans.
package image

import (
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

type imageRequest struct {
	Image string `json:"image"`
}

// Descriptors returns the image tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_images",
			"List all Docker images",
			func(tools.Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/images"}, nil
			},
		),
		tools.Mutation("pull_image",
			"Pull a Docker image from a registry",
			postImage("/api/images/pull"),
			mcp.WithString("image",
				mcp.Required(),
				mcp.Description("Image name and tag (e.g. \"nginx:latest\")"),
			),
		),
		tools.Destructive("remove_image",
			"Remove a Docker image",
			func(args tools.Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodDelete,
					Path:   "/api/images/" + tools.Segment(args.String("image_id")),
					Route:  "/api/images/{id}",
				}, nil
			},
			mcp.WithString("image_id",
				mcp.Required(),
				mcp.Description("The image ID or name:tag"),
			),
		),
		// Scans only read the image, but Dockhand runs them as a POST.
		tools.Query("scan_image",
			"Scan a Docker image for vulnerabilities",
			postImage("/api/images/scan"),
			mcp.WithString("image",
				mcp.Required(),
				mcp.Description("Image name and tag to scan"),
			),
		),
	}
}

func postImage(path string) tools.BuildFunc {
	return func(args tools.Args) (dockhand.Request, error) {
		return dockhand.Request{
			Method: http.MethodPost,
			Path:   path,
			Body:   imageRequest{Image: args.String("image")},
		}, nil
	}
}
