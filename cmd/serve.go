package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/internal/logger"
	"github.com/huangsam/destiny/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the destiny HTTP API",
	Long: `Serve compatibility checks over JSON HTTP.

Routes:
  GET  /api/v1/health
  GET  /api/v1/signs
  GET  /api/v1/tiers
  POST /api/v1/evaluate     {"sign_a": "aries", "sign_b": 4}
  POST /api/v1/share-text   {"sign_a": "aries", "sign_b": 4}
  GET  /metrics

The server stops gracefully on SIGINT or SIGTERM.

Examples:
  destiny serve --addr :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx)
	},
}

func runServer(ctx context.Context) error {
	srv, err := server.New(cfg, cacheManager, logger.L())
	if err != nil {
		contract.LogFatal("Cannot start server", err)
	}
	return srv.Run(ctx)
}
