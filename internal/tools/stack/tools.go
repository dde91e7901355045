// Package stack provides the Docker Compose stack tools.
package stack

import (
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

func stackNameParam() mcp.ToolOption {
	return mcp.WithString("stack_name",
		mcp.Required(),
		mcp.Description("The stack name"),
	)
}

// Descriptors returns the compose stack tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_stacks",
			"List all Docker Compose stacks",
			func(tools.Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/stacks"}, nil
			},
		),
		tools.Mutation("create_stack",
			"Create a new Docker Compose stack from compose YAML",
			buildCreate,
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Stack name"),
			),
			mcp.WithString("compose",
				mcp.Required(),
				mcp.Description("Docker Compose YAML content as a string"),
			),
		),
		tools.Mutation("start_stack",
			"Start or deploy a compose stack",
			stackRequest(http.MethodPost, "start"),
			stackNameParam(),
		),
		tools.Destructive("stop_stack",
			"Stop a running compose stack",
			stackRequest(http.MethodPost, "stop"),
			stackNameParam(),
		),
		tools.Destructive("remove_stack",
			"Remove a compose stack",
			stackRequest(http.MethodDelete, ""),
			stackNameParam(),
		),
	}
}

func stackRequest(method, suffix string) tools.BuildFunc {
	return func(args tools.Args) (dockhand.Request, error) {
		path := "/api/stacks/" + tools.Segment(args.String("stack_name"))
		route := "/api/stacks/{name}"
		if suffix != "" {
			path += "/" + suffix
			route += "/" + suffix
		}
		return dockhand.Request{Method: method, Path: path, Route: route}, nil
	}
}

type createRequest struct {
	Name    string `json:"name"`
	Compose string `json:"compose"`
}

// buildCreate sends the compose document verbatim after checking that it
// parses as a YAML mapping.
func buildCreate(args tools.Args) (dockhand.Request, error) {
	compose := args.String("compose")
	if err := checkCompose(compose); err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: "create_stack", Field: "compose", Reason: err.Error()}
	}

	return dockhand.Request{
		Method: http.MethodPost,
		Path:   "/api/stacks",
		Body: createRequest{
			Name:    args.String("name"),
			Compose: compose,
		},
	}, nil
}

func checkCompose(compose string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(compose), &doc); err != nil {
		return fmt.Errorf("not valid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("must be a YAML mapping")
	}
	return nil
}
