package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/rental-finder/internal/config"
	"github.com/evcraddock/rental-finder/internal/logging"
	"github.com/evcraddock/rental-finder/internal/web"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API server. Settings come from RF_* environment variables and an optional .env file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on (overrides RF_PORT)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	database, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeDB(database)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return web.NewServer(database, cfg).ListenAndServe(ctx, cfg.Port)
}
