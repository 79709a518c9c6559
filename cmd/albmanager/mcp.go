package main

import (
	"context"

	mcptools "github.com/felixgeelhaar/albmanager/internal/mcp"
	"github.com/felixgeelhaar/mcp-go"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol (MCP) server.

Available tools:
  - alb_validate  Validate the load balancer options
  - alb_package   Run the package lifecycle and write artifacts
  - alb_version   Show version information

Examples:
  albmanager mcp                 # Start stdio MCP server
  albmanager mcp --http :8080    # Start HTTP MCP server`,
	RunE: runMCP,
}

var mcpHTTP string

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpHTTP, "http", "", "Start HTTP server on address (e.g., :8080)")
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	albmanager, settings, err := newApp(cmd)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "albmanager",
		Version: version,
	})

	mcptools.RegisterAll(srv, albmanager, settings, mcptools.VersionInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: date,
	})

	if mcpHTTP != "" {
		return mcp.ServeHTTP(ctx, srv, mcpHTTP)
	}
	return mcp.ServeStdio(ctx, srv)
}
