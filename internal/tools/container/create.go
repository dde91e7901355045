package container

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

// createRequest is the body Dockhand expects on POST /api/containers.
type createRequest struct {
	Name          string                   `json:"name"`
	Image         string                   `json:"image"`
	RestartPolicy string                   `json:"restartPolicy"`
	PortBindings  map[string][]portBinding `json:"portBindings,omitempty"`
	Binds         []string                 `json:"binds,omitempty"`
	Environment   map[string]string        `json:"environment,omitempty"`
}

type portBinding struct {
	HostPort string `json:"HostPort"`
}

func buildCreate(args tools.Args) (dockhand.Request, error) {
	const tool = "create_container"

	body := createRequest{
		Name:          args.String("name"),
		Image:         args.String("image"),
		RestartPolicy: args.StringOr("restart_policy", DefaultRestartPolicy),
	}

	ports, err := args.Strings("ports")
	if err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: tool, Field: "ports", Reason: err.Error()}
	}
	if body.PortBindings, err = parsePortBindings(ports); err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: tool, Field: "ports", Reason: err.Error()}
	}

	if body.Binds, err = args.Strings("volumes"); err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: tool, Field: "volumes", Reason: err.Error()}
	}
	for _, bind := range body.Binds {
		if !strings.Contains(bind, ":") {
			return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: tool, Field: "volumes", Reason: fmt.Sprintf("%q is not a source:target mount", bind)}
		}
	}

	if body.Environment, err = args.StringMap("environment"); err != nil {
		return dockhand.Request{}, &tools.InvalidArgumentsError{Tool: tool, Field: "environment", Reason: err.Error()}
	}
	if len(body.Environment) == 0 {
		body.Environment = nil
	}

	return dockhand.Request{
		Method: http.MethodPost,
		Path:   "/api/containers",
		Body:   body,
	}, nil
}

// parsePortBindings turns "host:container[/proto]" mappings into Docker
// port bindings keyed by "container/proto". Protocol defaults to tcp.
func parsePortBindings(mappings []string) (map[string][]portBinding, error) {
	if len(mappings) == 0 {
		return nil, nil
	}

	bindings := make(map[string][]portBinding, len(mappings))
	for _, m := range mappings {
		host, target, ok := strings.Cut(strings.TrimSpace(m), ":")
		if !ok {
			return nil, fmt.Errorf("%q must have the form host:container", m)
		}

		containerPort, proto, hasProto := strings.Cut(target, "/")
		if !hasProto {
			proto = "tcp"
		}
		switch proto {
		case "tcp", "udp", "sctp":
		default:
			return nil, fmt.Errorf("%q has unsupported protocol %q", m, proto)
		}

		if err := checkPort(host); err != nil {
			return nil, fmt.Errorf("%q: host port %w", m, err)
		}
		if err := checkPort(containerPort); err != nil {
			return nil, fmt.Errorf("%q: container port %w", m, err)
		}

		key := containerPort + "/" + proto
		bindings[key] = append(bindings[key], portBinding{HostPort: host})
	}
	return bindings, nil
}

func checkPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("%q is not a port number", s)
	}
	return nil
}
