// Package container provides the Dockhand container lifecycle tools.
package container

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

const (
	// DefaultRestartPolicy is applied when create_container omits restart_policy.
	DefaultRestartPolicy = "unless-stopped"

	// DefaultLogTail is the number of log lines returned when tail is omitted.
	DefaultLogTail = 100
)

func containerIDParam() mcp.ToolOption {
	return mcp.WithString("container_id",
		mcp.Required(),
		mcp.Description("The container ID or name"),
	)
}

// Descriptors returns the container tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_containers",
			"List all Docker containers",
			func(tools.Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/containers"}, nil
			},
		),
		tools.Query("get_container",
			"Get detailed information about a specific container",
			func(args tools.Args) (dockhand.Request, error) {
				return containerRequest(http.MethodGet, args, ""), nil
			},
			containerIDParam(),
		),
		tools.Mutation("create_container",
			"Create a new Docker container",
			buildCreate,
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Container name"),
			),
			mcp.WithString("image",
				mcp.Required(),
				mcp.Description("Docker image (e.g. \"nginx:latest\")"),
			),
			mcp.WithArray("ports",
				mcp.Description("Port mappings as host:container[/protocol] (e.g. [\"8080:80\", \"5353:53/udp\"])"),
				mcp.WithStringItems(),
			),
			mcp.WithArray("volumes",
				mcp.Description("Volume mounts in Docker bind format (e.g. [\"/host/path:/container/path\"])"),
				mcp.WithStringItems(),
			),
			mcp.WithObject("environment",
				mcp.Description("Environment variables as key-value pairs"),
			),
			mcp.WithString("restart_policy",
				mcp.Description("Restart policy (no, always, unless-stopped, on-failure)"),
				mcp.DefaultString(DefaultRestartPolicy),
				mcp.Enum("no", "always", "unless-stopped", "on-failure"),
			),
		),
		tools.Mutation("start_container",
			"Start a stopped container",
			action("start"),
			containerIDParam(),
		),
		tools.Destructive("stop_container",
			"Stop a running container",
			action("stop"),
			containerIDParam(),
		),
		tools.Mutation("restart_container",
			"Restart a container",
			action("restart"),
			containerIDParam(),
		),
		tools.Destructive("remove_container",
			"Remove a container",
			func(args tools.Args) (dockhand.Request, error) {
				return containerRequest(http.MethodDelete, args, ""), nil
			},
			containerIDParam(),
		),
		tools.Query("get_container_logs",
			"Get logs from a container",
			buildLogs,
			containerIDParam(),
			mcp.WithNumber("tail",
				mcp.Description("Number of log lines to retrieve (default 100)"),
				mcp.DefaultNumber(DefaultLogTail),
				mcp.Min(0),
			),
		),
	}
}

// containerRequest addresses /api/containers/{id}[/suffix].
func containerRequest(method string, args tools.Args, suffix string) dockhand.Request {
	path := "/api/containers/" + tools.Segment(args.String("container_id"))
	route := "/api/containers/{id}"
	if suffix != "" {
		path += "/" + suffix
		route += "/" + suffix
	}
	return dockhand.Request{Method: method, Path: path, Route: route}
}

func action(verb string) tools.BuildFunc {
	return func(args tools.Args) (dockhand.Request, error) {
		return containerRequest(http.MethodPost, args, verb), nil
	}
}

func buildLogs(args tools.Args) (dockhand.Request, error) {
	tail, err := args.Int("tail", DefaultLogTail)
	if err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: "get_container_logs", Field: "tail", Reason: err.Error()}
	}
	if tail < 0 {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: "get_container_logs", Field: "tail", Reason: "must not be negative"}
	}

	req := containerRequest(http.MethodGet, args, "logs")
	req.Query = url.Values{"tail": []string{strconv.Itoa(tail)}}
	return req, nil
}
