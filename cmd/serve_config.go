package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/server"
	"github.com/giantswarm/mcp-dockhand/internal/server/middleware"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// envValueTrue is the string value used to enable boolean environment variables.
const envValueTrue = "true"

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	DebugMode bool
	LogFormat string

	Dockhand DockhandFlags
	HTTP     HTTPServeConfig
	Metrics  MetricsServeConfig
}

// DockhandFlags carries the Dockhand settings given on the command line.
// Only flags the user actually set override the DOCKHAND_* environment.
type DockhandFlags struct {
	URL      string
	Username string
	Timeout  time.Duration
	ReadOnly bool

	URLSet      bool
	UsernameSet bool
	TimeoutSet  bool
	ReadOnlySet bool
}

// HTTPServeConfig holds settings shared by the HTTP based transports.
type HTTPServeConfig struct {
	AllowedOrigins  []string
	EnableHSTS      bool
	MaxRequestBytes int64
}

// MetricsServeConfig controls the dedicated Prometheus listener.
type MetricsServeConfig struct {
	Enabled bool
	Addr    string
}

// validate checks the transport selection and endpoint paths.
func (c ServeConfig) validate() error {
	switch c.Transport {
	case transportStdio:
		return nil
	case transportSSE:
		if err := validateEndpoint("--sse-endpoint", c.SSEEndpoint); err != nil {
			return err
		}
		if err := validateEndpoint("--message-endpoint", c.MessageEndpoint); err != nil {
			return err
		}
		if c.SSEEndpoint == c.MessageEndpoint {
			return fmt.Errorf("--sse-endpoint and --message-endpoint must differ (both %q)", c.SSEEndpoint)
		}
	case transportStreamableHTTP:
		if err := validateEndpoint("--http-endpoint", c.HTTPEndpoint); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", c.Transport)
	}

	if c.HTTPAddr == "" {
		return fmt.Errorf("--http-addr is required for the %s transport", c.Transport)
	}
	return nil
}

func validateEndpoint(flag, path string) error {
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%s must start with '/' (got %q)", flag, path)
	}
	for _, reserved := range []string{"/healthz", "/readyz"} {
		if path == reserved || strings.HasPrefix(path, reserved+"/") {
			return fmt.Errorf("%s must not shadow the %s health endpoint", flag, reserved)
		}
	}
	return nil
}

// resolveDockhandConfig reads DOCKHAND_* from the environment, applies the
// flags that were explicitly set and validates the result.
func resolveDockhandConfig(flags DockhandFlags) (dockhand.Config, error) {
	cfg, err := dockhand.LoadConfigFromEnv()
	if err != nil {
		return dockhand.Config{}, err
	}

	if flags.URLSet {
		cfg.URL = flags.URL
	}
	if flags.UsernameSet {
		cfg.Username = flags.Username
	}
	if flags.TimeoutSet {
		cfg.Timeout = flags.Timeout
	}
	if flags.ReadOnlySet {
		cfg.ReadOnly = flags.ReadOnly
	}

	if err := cfg.Validate(); err != nil {
		return dockhand.Config{}, err
	}
	return cfg, nil
}

// loadHTTPServeConfig reads the HTTP hardening settings from the environment.
func loadHTTPServeConfig() (HTTPServeConfig, error) {
	origins, err := middleware.ValidateAllowedOrigins(os.Getenv("ALLOWED_ORIGINS"))
	if err != nil {
		return HTTPServeConfig{}, fmt.Errorf("invalid ALLOWED_ORIGINS: %w", err)
	}
	return HTTPServeConfig{
		AllowedOrigins:  origins,
		EnableHSTS:      os.Getenv("ENABLE_HSTS") == envValueTrue,
		MaxRequestBytes: middleware.DefaultMaxRequestBytes,
	}, nil
}

// dockhandFlagsFromCommand records which Dockhand flags the user set.
func dockhandFlagsFromCommand(cmd *cobra.Command, flags DockhandFlags) DockhandFlags {
	flags.URLSet = cmd.Flags().Changed("dockhand-url")
	flags.UsernameSet = cmd.Flags().Changed("dockhand-user")
	flags.TimeoutSet = cmd.Flags().Changed("dockhand-timeout")
	flags.ReadOnlySet = cmd.Flags().Changed("read-only")
	return flags
}

// defaultMetricsConfig is the metrics listener used when no flags are given.
func defaultMetricsConfig() MetricsServeConfig {
	return MetricsServeConfig{Enabled: true, Addr: server.DefaultMetricsAddr}
}
