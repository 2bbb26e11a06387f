package main

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	keyserver "github.com/HendryAvila/keysync/internal/server"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdin/stdout. Logs go to stderr or the
configured log file; stdout carries only protocol messages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := keyserver.New(c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			return server.ServeStdio(s)
		},
	}
}
