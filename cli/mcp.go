// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CRM tools over stdio for agent integration
package cli

import (
	"context"

	"github.com/harperreed/dealdesk/handlers"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPCommand starts the MCP server on stdio.
func MCPCommand(env *Env, version string) error {
	env.Logger.Info("starting dealdesk MCP server", "version", version)

	server := handlers.NewServer(env.Repos, env.Logger, version)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
