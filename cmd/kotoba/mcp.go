package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aretw0/kotoba"
	"github.com/aretw0/kotoba/internal/cli"
	"github.com/aretw0/kotoba/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes translation as the MCP tool 'translate' so AI agents can call it.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		translator, err := newTranslator(cfg, logger, nil, false)
		if err != nil {
			return err
		}

		var opts []mcp.Option
		if system, err := kotoba.SystemPrompt(); err == nil {
			opts = append(opts, mcp.WithPromptResource(system))
		}
		srv := mcp.NewServer(translator, kotoba.Version, opts...)

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			// Logs must not corrupt JSON-RPC on Stdout.
			log.SetOutput(os.Stderr)
			slog.Info("Starting Kotoba MCP Server (Stdio)...")
			return srv.ServeStdio()
		case "sse":
			slog.Info("Starting Kotoba MCP Server (SSE)", "port", cfg.Port)

			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Stop()

			if err := srv.ServeSSE(sigCtx, cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("MCP server execution failed: %w", err)
			}
			slog.Info("MCP Server stopped gracefully", "signal", sigCtx.Signal())
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().IntP("port", "p", 3000, "Port to listen on (only for SSE, env PORT)")
}
