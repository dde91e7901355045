package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/server"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

var allTools = []string{
	"list_environments", "get_dashboard_stats", "get_activity_log", "list_schedules",
	"list_containers", "get_container", "create_container", "start_container",
	"stop_container", "restart_container", "remove_container", "get_container_logs",
	"list_stacks", "create_stack", "start_stack", "stop_stack", "remove_stack",
	"list_images", "pull_image", "remove_image", "scan_image",
	"list_volumes", "create_volume", "remove_volume",
	"list_networks", "create_network", "remove_network",
}

type recordedCall struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
}

// upstream is a fake Dockhand that requires a session cookie on /api/ routes.
type upstream struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []recordedCall
	logins  int
	expired bool
}

func newUpstream(t *testing.T, payload string) *upstream {
	t.Helper()
	u := &upstream{}

	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		u.mu.Lock()
		defer u.mu.Unlock()

		if r.URL.Path == "/api/auth/login" {
			u.logins++
			u.expired = false
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1"})
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}

		u.calls = append(u.calls, recordedCall{Method: r.Method, Path: r.URL.EscapedPath(), RawQuery: r.URL.RawQuery, Body: string(body)})

		if c, err := r.Cookie("session"); err != nil || c.Value != "s1" || u.expired {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(u.Close)
	return u
}

func (u *upstream) snapshot() ([]recordedCall, int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]recordedCall(nil), u.calls...), u.logins
}

func (u *upstream) expire() {
	u.mu.Lock()
	u.expired = true
	u.mu.Unlock()
}

func newDispatcher(t *testing.T, u *upstream, opts ...server.Option) (*tools.Dispatcher, *server.ServerContext) {
	t.Helper()
	return newDispatcherFor(t, u.URL, opts...)
}

func newDispatcherFor(t *testing.T, baseURL string, opts ...server.Option) (*tools.Dispatcher, *server.ServerContext) {
	t.Helper()

	client, err := dockhand.NewClient(dockhand.Config{
		URL:      baseURL,
		Username: "admin",
		Password: "secret",
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	registry, err := NewRegistry()
	require.NoError(t, err)

	sc, err := server.NewServerContext(context.Background(), append([]server.Option{server.WithDockhandClient(client)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return tools.NewDispatcher(sc, registry), sc
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	require.NoError(t, err)

	assert.ElementsMatch(t, allTools, registry.Names())

	for _, d := range registry.All() {
		assert.Contains(t, d.Tool.InputSchema.Properties, tools.EnvParam, "tool %s must accept env", d.Name())
		assert.NotEmpty(t, d.Tool.Description, "tool %s must be described", d.Name())
		assert.False(t, d.ReadOnly && d.Destructive, "tool %s cannot be both read-only and destructive", d.Name())
	}
}

func TestListContainers_NoEnv(t *testing.T) {
	const payload = `[{"Id":"3f2a","Names":["/web"],"State":"running"}]`
	u := newUpstream(t, payload)
	d, _ := newDispatcher(t, u)

	result := d.Invoke(context.Background(), "list_containers", map[string]any{})

	require.False(t, result.IsError, text(t, result))
	assert.Equal(t, payload, text(t, result))

	calls, logins := u.snapshot()
	assert.Equal(t, 1, logins, "exactly one login before the first resource call")
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/api/containers", calls[0].Path)
	assert.Empty(t, calls[0].RawQuery, "no env query parameter without an environment")
}

func TestCreateStack_WithEnv(t *testing.T) {
	const compose = "services:\n  web:\n    image: nginx:latest\n"
	u := newUpstream(t, `{"success":true}`)
	d, _ := newDispatcher(t, u)

	result := d.Invoke(context.Background(), "create_stack", map[string]any{
		"name":    "web",
		"compose": compose,
		"env":     "prod",
	})
	require.False(t, result.IsError, text(t, result))

	calls, _ := u.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/api/stacks", calls[0].Path)
	assert.Equal(t, "env=prod", calls[0].RawQuery)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(calls[0].Body), &body))
	assert.Equal(t, map[string]string{"name": "web", "compose": compose}, body)
}

func TestGetContainerLogs_TailAndEnv(t *testing.T) {
	u := newUpstream(t, `{"logs":"hello"}`)
	d, _ := newDispatcher(t, u)

	result := d.Invoke(context.Background(), "get_container_logs", map[string]any{"container_id": "web", "env": "staging"})
	require.False(t, result.IsError, text(t, result))

	calls, _ := u.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/containers/web/logs", calls[0].Path)
	assert.Equal(t, "env=staging&tail=100", calls[0].RawQuery)
}

func TestUnknownTool_NoNetwork(t *testing.T) {
	u := newUpstream(t, `{}`)
	d, _ := newDispatcher(t, u)

	result := d.Invoke(context.Background(), "format_disk", map[string]any{})

	payload, ok := tools.ParseErrorResult(result)
	require.True(t, ok)
	assert.Equal(t, tools.KindUnknownTool, payload.Kind)

	calls, logins := u.snapshot()
	assert.Empty(t, calls)
	assert.Zero(t, logins)
}

func TestMissingArgument_NoNetwork(t *testing.T) {
	u := newUpstream(t, `{}`)
	d, _ := newDispatcher(t, u)

	result := d.Invoke(context.Background(), "get_container", map[string]any{})

	payload, ok := tools.ParseErrorResult(result)
	require.True(t, ok)
	assert.Equal(t, tools.KindInvalidArguments, payload.Kind)
	assert.Equal(t, "container_id", payload.Field)

	calls, logins := u.snapshot()
	assert.Empty(t, calls)
	assert.Zero(t, logins)
}

func TestExpiredSession_ReloginAndRetry(t *testing.T) {
	u := newUpstream(t, `[]`)
	d, _ := newDispatcher(t, u)

	require.False(t, d.Invoke(context.Background(), "list_images", nil).IsError)
	u.expire()
	result := d.Invoke(context.Background(), "list_images", nil)
	require.False(t, result.IsError, text(t, result))

	calls, logins := u.snapshot()
	assert.Equal(t, 2, logins)
	assert.Len(t, calls, 3, "first call, rejected call, retried call")
}

func TestUpstreamError_Passthrough(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No such container: ghost"}`))
	}))
	t.Cleanup(ts.Close)
	d, _ := newDispatcherFor(t, ts.URL)

	result := d.Invoke(context.Background(), "get_container", map[string]any{"container_id": "ghost"})

	payload, ok := tools.ParseErrorResult(result)
	require.True(t, ok)
	assert.Equal(t, tools.KindUpstream, payload.Kind)
	assert.Equal(t, http.StatusNotFound, payload.Status)
	assert.Equal(t, `{"error":"No such container: ghost"}`, payload.Body)
}

func TestReadOnlyMode(t *testing.T) {
	u := newUpstream(t, `[]`)
	d, _ := newDispatcher(t, u, server.WithReadOnly(true))

	result := d.Invoke(context.Background(), "remove_container", map[string]any{"container_id": "web"})
	payload, ok := tools.ParseErrorResult(result)
	require.True(t, ok)
	assert.Equal(t, tools.KindOperationNotAllowed, payload.Kind)

	assert.False(t, d.Invoke(context.Background(), "scan_image", map[string]any{"image": "nginx"}).IsError)

	calls, _ := u.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/images/scan", calls[0].Path)
}

func TestMCPServer_ListAndCall(t *testing.T) {
	u := newUpstream(t, `[{"Name":"bridge"}]`)
	d, _ := newDispatcher(t, u)

	mcpSrv := mcpserver.NewMCPServer("mcp-dockhand", "test",
		mcpserver.WithToolCapabilities(true),
	)
	d.Register(mcpSrv)

	registered := mcpSrv.ListTools()
	assert.Len(t, registered, len(allTools))
	for _, name := range allTools {
		assert.Contains(t, registered, name)
	}

	ann := registered["remove_volume"].Tool.Annotations
	require.NotNil(t, ann.DestructiveHint)
	assert.True(t, *ann.DestructiveHint)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_networks","arguments":{"env":"lab"}}}`)
	raw, err := json.Marshal(mcpSrv.HandleMessage(context.Background(), msg))
	require.NoError(t, err)

	var resp struct {
		Result struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.Len(t, resp.Result.Content, 1)
	assert.False(t, resp.Result.IsError)
	assert.Equal(t, `[{"Name":"bridge"}]`, resp.Result.Content[0].Text)

	calls, _ := u.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/networks", calls[0].Path)
	assert.Equal(t, "env=lab", calls[0].RawQuery)
}
