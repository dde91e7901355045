package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// runStdioServer serves MCP over the given streams until ctx is cancelled or
// the input is closed. Nothing but protocol messages may be written to out.
func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		logger.Info("stdio server stopped")
		return nil
	}
	return fmt.Errorf("server stopped with error: %w", err)
}
