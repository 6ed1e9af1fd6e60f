package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcoot/chessarchive/internal/api"
)

func newServeCmd() *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the archive over the HTTP JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if host != "" {
				settings.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				settings.Server.Port = port
			}

			router := api.NewRouter(api.RouterConfig{
				Logger:  logger,
				Cache:   app.Cache,
				Scanner: app.Scanner,
				Clock:   app.Clock,
			})
			server := api.NewServer(router, api.ServerConfigFrom(settings.Server), logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (env: CHESSARCHIVE_HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (env: CHESSARCHIVE_PORT)")

	return cmd
}
