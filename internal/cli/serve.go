package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"residents/internal/api"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard views as a JSON API",
		Long: `Start the HTTP API. The listener comes up at once and the dataset loads
in the background; data routes answer 503 until it is ready.

With --watch the dataset file is reloaded whenever it changes. A reload that
fails keeps the previous snapshot.`,
		Example: `  # Serve on the default address
  residents serve --data Singapore_Residents.csv

  # Reload on change, listen on port 9000
  residents serve --watch --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			h := api.NewHandler(viewOptions(cfg), cfg.CacheTTL, logger)
			srv := api.NewServer(api.ServerConfig{
				Addr:     cfg.Addr,
				DataPath: cfg.DataPath,
				Watch:    cfg.Watch,
				Logger:   logger,
			}, h)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", "", "HTTP listen address (default :8080)")
	cmd.Flags().Bool("watch", false, "Reload the dataset when the file changes")
	cmd.Flags().Duration("cache-ttl", 0, "Lifetime of cached API responses (default 10m)")

	return cmd
}
