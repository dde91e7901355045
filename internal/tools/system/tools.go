// Package system provides the Dockhand tools that are not tied to one
// object type: environments, dashboard statistics, activity and schedules.
package system

import (
	"net/http"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
)

// Descriptors returns the system tools.
func Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		tools.Query("list_environments",
			"List the Docker environments managed by Dockhand",
			get("/api/environments"),
		),
		tools.Query("get_dashboard_stats",
			"Get dashboard statistics (container, image, volume and network counts) for an environment",
			get("/api/dashboard/stats"),
		),
		tools.Query("get_activity_log",
			"Get the Dockhand activity log",
			get("/api/activity"),
		),
		tools.Query("list_schedules",
			"List scheduled tasks configured in Dockhand",
			get("/api/schedules"),
		),
	}
}

func get(path string) tools.BuildFunc {
	return func(tools.Args) (dockhand.Request, error) {
		return dockhand.Request{Method: http.MethodGet, Path: path}, nil
	}
}
