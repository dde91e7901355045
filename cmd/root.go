package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for mcp-dockhand. Without a subcommand it
// starts the MCP server.
var rootCmd = &cobra.Command{
	Use:   "mcp-dockhand",
	Short: "MCP server for Dockhand container management",
	Long: `mcp-dockhand is a Model Context Protocol (MCP) server that exposes a
Dockhand instance as a set of tools. AI agents can list and manage containers,
compose stacks, images, volumes and networks, and read dashboard statistics,
activity and schedules.

When run without subcommands, it starts the MCP server (equivalent to 'mcp-dockhand serve').`,
	// Errors are reported by the command itself; usage output would only add noise.
	SilenceUsage: true,
}

// SetVersion sets the version reported by the root command.
// It is called from main with the value injected at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-dockhand version %s\n" .Version}}`)

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
}
