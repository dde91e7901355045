package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/giantswarm/mcp-dockhand/internal/dockhand"
	"github.com/giantswarm/mcp-dockhand/internal/instrumentation"
	"github.com/giantswarm/mcp-dockhand/internal/logging"
	"github.com/giantswarm/mcp-dockhand/internal/server"
	"github.com/giantswarm/mcp-dockhand/internal/tools"
	"github.com/giantswarm/mcp-dockhand/internal/tools/catalog"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		config        ServeConfig
		dockhandFlags DockhandFlags
	)
	config.Metrics = defaultMetricsConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP Dockhand server",
		Long: `Start the MCP Dockhand server to provide tools for managing containers,
stacks, images, volumes and networks through a Dockhand instance via the
Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Dockhand connection settings are read from the environment and may be
overridden by flags:
  DOCKHAND_URL       Dockhand base URL (required)
  DOCKHAND_USER      Username (optional, requires DOCKHAND_PASS)
  DOCKHAND_PASS      Password (environment only)
  DOCKHAND_TIMEOUT   Per-request timeout (default 30s)
  DOCKHAND_READ_ONLY Reject all mutating tools (default false)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Dockhand = dockhandFlagsFromCommand(cmd, dockhandFlags)
			return runServe(cmd.Context(), config)
		},
	}

	cmd.Flags().StringVar(&dockhandFlags.URL, "dockhand-url", "", "Dockhand base URL (overrides DOCKHAND_URL)")
	cmd.Flags().StringVar(&dockhandFlags.Username, "dockhand-user", "", "Dockhand username (overrides DOCKHAND_USER; the password is read from DOCKHAND_PASS)")
	cmd.Flags().DurationVar(&dockhandFlags.Timeout, "dockhand-timeout", dockhand.DefaultTimeout, "Timeout for each Dockhand request (overrides DOCKHAND_TIMEOUT)")
	cmd.Flags().BoolVar(&dockhandFlags.ReadOnly, "read-only", false, "Reject every mutating tool (overrides DOCKHAND_READ_ONLY)")
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().StringVar(&config.LogFormat, "log-format", "text", "Log format: text or json")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	// Metrics flags
	cmd.Flags().BoolVar(&config.Metrics.Enabled, "metrics-enabled", config.Metrics.Enabled, "Serve Prometheus metrics on a dedicated listener when instrumentation is enabled")
	cmd.Flags().StringVar(&config.Metrics.Addr, "metrics-addr", config.Metrics.Addr, "Address of the metrics listener")

	return cmd
}

// runServe wires the Dockhand client, tool registry and dispatcher into an MCP
// server and runs the selected transport until ctx is cancelled or a
// termination signal arrives.
func runServe(ctx context.Context, config ServeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.validate(); err != nil {
		return err
	}

	// stdout carries the protocol in stdio mode, so logs always go to stderr.
	logger := logging.NewLogger(os.Stderr, config.LogFormat, config.DebugMode)
	slog.SetDefault(logger)

	dockhandConfig, err := resolveDockhandConfig(config.Dockhand)
	if err != nil {
		return err
	}

	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	provider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := provider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()
	if provider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	serverContext, mcpSrv, err := newMCPServer(shutdownCtx, logger, dockhandConfig, provider)
	if err != nil {
		return err
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	metricsServer, err := startMetricsServer(logger, config.Metrics, provider)
	if err != nil {
		return err
	}
	if metricsServer != nil {
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer stop()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}()
	}

	logger.Info("starting MCP Dockhand server",
		"transport", config.Transport,
		"version", rootCmd.Version,
		logging.Host(dockhandConfig.URL),
		"read_only", dockhandConfig.ReadOnly,
		"credentials", dockhandConfig.HasCredentials())

	switch config.Transport {
	case transportStdio:
		return runStdioServer(shutdownCtx, mcpSrv, logger, os.Stdin, os.Stdout)
	case transportSSE:
		httpConfig, err := loadHTTPServeConfig()
		if err != nil {
			return err
		}
		return runSSEServer(shutdownCtx, mcpSrv, serverContext, config, httpConfig)
	case transportStreamableHTTP:
		httpConfig, err := loadHTTPServeConfig()
		if err != nil {
			return err
		}
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, config, httpConfig)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}

// newMCPServer builds the Dockhand client, server context and MCP server with
// every tool registered.
func newMCPServer(ctx context.Context, logger *slog.Logger, cfg dockhand.Config, provider *instrumentation.Provider) (*server.ServerContext, *mcpserver.MCPServer, error) {
	clientOpts := []dockhand.ClientOption{
		dockhand.WithLogger(logging.NewSlogAdapter(logger)),
		dockhand.WithUserAgent("mcp-dockhand/" + rootCmd.Version),
	}
	if provider != nil && provider.Enabled() {
		clientOpts = append(clientOpts, dockhand.WithRecorder(provider.Metrics()))
	}

	client, err := dockhand.NewClient(cfg, clientOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Dockhand client: %w", err)
	}

	opts := []server.Option{
		server.WithDockhandClient(client),
		server.WithLogger(logger),
		server.WithReadOnly(cfg.ReadOnly),
	}
	if rootCmd.Version != "" {
		opts = append(opts, server.WithVersion(rootCmd.Version))
	}
	if provider != nil {
		opts = append(opts, server.WithInstrumentationProvider(provider))
	}

	sc, err := server.NewServerContext(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create server context: %w", err)
	}

	registry, err := catalog.NewRegistry()
	if err != nil {
		_ = sc.Shutdown()
		return nil, nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	mcpSrv := mcpserver.NewMCPServer(sc.Config().ServerName, sc.Config().Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)
	tools.NewDispatcher(sc, registry).Register(mcpSrv)

	logger.Debug("registered tools", "count", registry.Len(), "read_only", cfg.ReadOnly)
	return sc, mcpSrv, nil
}

// startMetricsServer starts the dedicated metrics listener when enabled.
// It returns nil when there is nothing to serve.
func startMetricsServer(logger *slog.Logger, config MetricsServeConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	if !config.Enabled || provider == nil || !provider.Enabled() ||
		provider.Config().MetricsExporter != instrumentation.MetricsExporterPrometheus {
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    config.Addr,
		Enabled:                 config.Enabled,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", logging.Err(err))
		}
	}()

	logger.Info("metrics server started", "addr", config.Addr, "endpoint", "/metrics")
	return metricsServer, nil
}
