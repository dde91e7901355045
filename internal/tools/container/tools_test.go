package container

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

func descriptor(t *testing.T, name string) tools.Descriptor {
	t.Helper()
	for _, d := range Descriptors() {
		if d.Name() == name {
			return d
		}
	}
	t.Fatalf("tool %s not found", name)
	return tools.Descriptor{}
}

func TestDescriptors_Registered(t *testing.T) {
	want := []string{
		"list_containers",
		"get_container",
		"create_container",
		"start_container",
		"stop_container",
		"restart_container",
		"remove_container",
		"get_container_logs",
	}

	var got []string
	for _, d := range Descriptors() {
		got = append(got, d.Name())
	}
	assert.ElementsMatch(t, want, got)
}

func TestDescriptors_Requests(t *testing.T) {
	args := tools.Args{"container_id": "web-1"}

	tests := []struct {
		tool        string
		method      string
		path        string
		route       string
		readOnly    bool
		destructive bool
	}{
		{tool: "list_containers", method: http.MethodGet, path: "/api/containers", readOnly: true},
		{tool: "get_container", method: http.MethodGet, path: "/api/containers/web-1", route: "/api/containers/{id}", readOnly: true},
		{tool: "start_container", method: http.MethodPost, path: "/api/containers/web-1/start", route: "/api/containers/{id}/start"},
		{tool: "stop_container", method: http.MethodPost, path: "/api/containers/web-1/stop", route: "/api/containers/{id}/stop", destructive: true},
		{tool: "restart_container", method: http.MethodPost, path: "/api/containers/web-1/restart", route: "/api/containers/{id}/restart"},
		{tool: "remove_container", method: http.MethodDelete, path: "/api/containers/web-1", route: "/api/containers/{id}", destructive: true},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			d := descriptor(t, tt.tool)
			assert.Equal(t, tt.readOnly, d.ReadOnly)
			assert.Equal(t, tt.destructive, d.Destructive)

			req, err := d.Build(args)
			require.NoError(t, err)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.route, req.Route)
			assert.Nil(t, req.Body)
		})
	}
}

func TestContainerIDIsEscaped(t *testing.T) {
	req, err := descriptor(t, "get_container").Build(tools.Args{"container_id": "a/b c"})
	require.NoError(t, err)
	assert.Equal(t, "/api/containers/a%2Fb%20c", req.Path)
}

func TestContainerIDRequired(t *testing.T) {
	for _, name := range []string{"get_container", "start_container", "stop_container", "restart_container", "remove_container", "get_container_logs"} {
		t.Run(name, func(t *testing.T) {
			err := tools.Validate(descriptor(t, name), tools.Args{})
			var invalid *tools.InvalidArgumentsError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, "container_id", invalid.Field)
		})
	}
}

func TestGetContainerLogs(t *testing.T) {
	d := descriptor(t, "get_container_logs")

	tests := []struct {
		name      string
		args      tools.Args
		wantTail  string
		wantError bool
	}{
		{name: "default tail", args: tools.Args{"container_id": "web"}, wantTail: "100"},
		{name: "explicit tail", args: tools.Args{"container_id": "web", "tail": 25.0}, wantTail: "25"},
		{name: "zero tail", args: tools.Args{"container_id": "web", "tail": 0.0}, wantTail: "0"},
		{name: "negative tail", args: tools.Args{"container_id": "web", "tail": -1.0}, wantError: true},
		{name: "fractional tail", args: tools.Args{"container_id": "web", "tail": 1.5}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := d.Build(tt.args)
			if tt.wantError {
				var invalid *tools.InvalidArgumentsError
				require.True(t, errors.As(err, &invalid))
				assert.Equal(t, "tail", invalid.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/api/containers/web/logs", req.Path)
			assert.Equal(t, url.Values{"tail": []string{tt.wantTail}}, req.Query)
		})
	}
}

func TestCreateContainer_Schema(t *testing.T) {
	d := descriptor(t, "create_container")

	assert.ElementsMatch(t, []string{"name", "image"}, d.Tool.InputSchema.Required)
	for _, p := range []string{"ports", "volumes", "environment", "restart_policy", tools.EnvParam} {
		assert.Contains(t, d.Tool.InputSchema.Properties, p)
	}
	assert.False(t, d.ReadOnly)
	assert.False(t, d.Destructive)
}

func TestCreateContainer_Body(t *testing.T) {
	d := descriptor(t, "create_container")

	t.Run("minimal request uses default restart policy", func(t *testing.T) {
		req, err := d.Build(tools.Args{"name": "web", "image": "nginx:latest"})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/containers", req.Path)
		assert.Equal(t, createRequest{
			Name:          "web",
			Image:         "nginx:latest",
			RestartPolicy: "unless-stopped",
		}, req.Body)
	})

	t.Run("full request is translated", func(t *testing.T) {
		req, err := d.Build(tools.Args{
			"name":           "web",
			"image":          "nginx:latest",
			"ports":          []any{"8080:80", "8443:443", "5353:53/udp", "9080:80"},
			"volumes":        []any{"/srv/web:/usr/share/nginx/html:ro"},
			"environment":    map[string]any{"MODE": "prod"},
			"restart_policy": "always",
		})
		require.NoError(t, err)

		assert.Equal(t, createRequest{
			Name:          "web",
			Image:         "nginx:latest",
			RestartPolicy: "always",
			PortBindings: map[string][]portBinding{
				"80/tcp":  {{HostPort: "8080"}, {HostPort: "9080"}},
				"443/tcp": {{HostPort: "8443"}},
				"53/udp":  {{HostPort: "5353"}},
			},
			Binds:       []string{"/srv/web:/usr/share/nginx/html:ro"},
			Environment: map[string]string{"MODE": "prod"},
		}, req.Body)
	})

	t.Run("empty environment is omitted", func(t *testing.T) {
		req, err := d.Build(tools.Args{"name": "web", "image": "nginx", "environment": map[string]any{}})
		require.NoError(t, err)
		assert.Nil(t, req.Body.(createRequest).Environment)
	})
}

func TestCreateContainer_InvalidArguments(t *testing.T) {
	d := descriptor(t, "create_container")

	tests := []struct {
		name      string
		args      tools.Args
		wantField string
	}{
		{name: "port without colon", args: tools.Args{"ports": []any{"8080"}}, wantField: "ports"},
		{name: "non-numeric host port", args: tools.Args{"ports": []any{"http:80"}}, wantField: "ports"},
		{name: "port out of range", args: tools.Args{"ports": []any{"70000:80"}}, wantField: "ports"},
		{name: "unknown protocol", args: tools.Args{"ports": []any{"8080:80/icmp"}}, wantField: "ports"},
		{name: "volume without target", args: tools.Args{"volumes": []any{"/data"}}, wantField: "volumes"},
		{name: "nested environment value", args: tools.Args{"environment": map[string]any{"A": []any{}}}, wantField: "environment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["name"] = "web"
			tt.args["image"] = "nginx"

			_, err := d.Build(tt.args)
			var invalid *tools.InvalidArgumentsError
			require.True(t, errors.As(err, &invalid), "expected InvalidArgumentsError, got %v", err)
			assert.Equal(t, "create_container", invalid.Tool)
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestCreateContainer_RestartPolicyEnum(t *testing.T) {
	d := descriptor(t, "create_container")
	err := tools.Validate(d, tools.Args{"name": "web", "image": "nginx", "restart_policy": "sometimes"})
	assert.Error(t, err)
}
