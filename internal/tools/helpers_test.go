package tools

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/server"
)

// recordingClient is a DockhandClient that records requests and replays a canned outcome.
type recordingClient struct {
	mu       sync.Mutex
	requests []dockhand.Request

	payload string
	err     error
}

func (c *recordingClient) Do(ctx context.Context, req dockhand.Request) (*dockhand.Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	if c.err != nil {
		return nil, c.err
	}
	payload := c.payload
	if payload == "" {
		payload = `{"status":"ok"}`
	}
	return &dockhand.Response{StatusCode: http.StatusOK, Payload: []byte(payload)}, nil
}

func (c *recordingClient) calls() []dockhand.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dockhand.Request(nil), c.requests...)
}

func (c *recordingClient) BaseURL() string           { return "http://dockhand.test" }
func (c *recordingClient) HasCredentials() bool      { return false }
func (c *recordingClient) Authenticated() bool       { return false }
func (c *recordingClient) SessionAge() time.Duration { return 0 }

func newTestServerContext(t *testing.T, client server.DockhandClient, opts ...server.Option) (*server.ServerContext, *bytes.Buffer) {
	t.Helper()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	all := append([]server.Option{
		server.WithDockhandClient(client),
		server.WithLogger(logger),
	}, opts...)

	sc, err := server.NewServerContext(context.Background(), all...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc, &logs
}

// testDescriptors is a small registry covering each annotation class.
func testDescriptors() []Descriptor {
	return []Descriptor{
		Query("list_things", "List things",
			func(Args) (dockhand.Request, error) {
				return dockhand.Request{Method: http.MethodGet, Path: "/api/things"}, nil
			},
		),
		Mutation("create_thing", "Create a thing",
			func(args Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodPost,
					Path:   "/api/things",
					Body:   map[string]any{"name": args.String("name"), "size": args["size"]},
				}, nil
			},
			mcp.WithString("name", mcp.Required(), mcp.Description("Thing name")),
			mcp.WithNumber("size", mcp.Description("Thing size")),
			mcp.WithArray("tags", mcp.WithStringItems()),
			mcp.WithObject("labels"),
			mcp.WithBoolean("force"),
		),
		Destructive("remove_thing", "Remove a thing",
			func(args Args) (dockhand.Request, error) {
				return dockhand.Request{
					Method: http.MethodDelete,
					Path:   "/api/things/" + Segment(args.String("thing_id")),
					Route:  "/api/things/{id}",
				}, nil
			},
			mcp.WithString("thing_id", mcp.Required()),
		),
	}
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(testDescriptors())
	require.NoError(t, err)
	return r
}
