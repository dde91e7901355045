package system

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

func TestDescriptors(t *testing.T) {
	want := map[string]string{
		"list_environments":   "/api/environments",
		"get_dashboard_stats": "/api/dashboard/stats",
		"get_activity_log":    "/api/activity",
		"list_schedules":      "/api/schedules",
	}

	descriptors := Descriptors()
	require.Len(t, descriptors, len(want))

	for _, d := range descriptors {
		t.Run(d.Name(), func(t *testing.T) {
			path, ok := want[d.Name()]
			require.True(t, ok, "unexpected tool %s", d.Name())

			assert.True(t, d.ReadOnly)
			assert.False(t, d.Destructive)
			assert.Contains(t, d.Tool.InputSchema.Properties, tools.EnvParam)
			assert.Empty(t, d.Tool.InputSchema.Required)

			req, err := d.Build(tools.Args{})
			require.NoError(t, err)
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, path, req.Path)
			assert.Nil(t, req.Body)
		})
	}
}
