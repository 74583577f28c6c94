package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-enhance-mcp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdin/stdout",
	Long: `Run the MCP server over stdin/stdout.

Configure it in your MCP client; the client starts this process and talks
JSON-RPC over its standard streams. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.Debug() {
		log.Printf("Image Enhance MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("background removal configured: %t", cfg.HasAzureConfig())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	return server.New(cfg).Run(ctx)
}
