package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"beam-website/internal/app"
	"beam-website/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if port != "" {
				cfg.Port = port
			}

			application, err := app.New(cfg, app.Options{})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			serverErr := make(chan error, 1)
			go func() {
				if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			var runErr error
			select {
			case <-ctx.Done():
				logger.Info("Shutting down server...", nil)
			case runErr = <-serverErr:
				logger.Error(runErr, "Server error occurred, initiating shutdown", nil)
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := application.Shutdown(shutdownCtx); err != nil {
				logger.Error(err, "Server forced to shutdown", nil)
				return errors.Join(runErr, err)
			}

			logger.Info("Server exited gracefully", nil)
			return runErr
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "override PORT")
	return cmd
}
