package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mj1618/eva/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the command pipeline to agents and front ends",
	Long: `Start a server that accepts commands for the pipeline.

Supported transports:
  stdio             MCP over standard I/O (default, for MCP clients)
  streamable-http   MCP over streamable HTTP (for remote agents)
  websocket         JSON envelopes on ws://host:port/ws (for GUI front ends)

Examples:
  eva serve
  eva serve --transport streamable-http --port 8080
  eva serve --transport websocket`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http, websocket (default from config)")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http and websocket (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	if transport == "" {
		transport = cfg.Server.Transport
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	switch transport {
	case "websocket":
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		opts := server.Options{Logger: logger}
		if a.journal != nil {
			opts.History = a.journal
		}
		return server.New(a.pipeline, opts).ListenAndServe(ctx, fmt.Sprintf(":%d", port))
	case "stdio", "streamable-http":
		return newMCPServer(a).serve(MCPConfig{Transport: transport, Port: port})
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio, streamable-http, or websocket)", transport)
	}
}
