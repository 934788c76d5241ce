package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/termhost/internal/infrastructure/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port, host string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.config
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}

			srv, err := server.NewServer(cfg, opts.logger)
			if err != nil {
				return logFatal(opts.logger, "Failed to create server", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run()
			}()

			select {
			case <-ctx.Done():
				opts.logger.Info("Shutting down gracefully...")
				if err := srv.Close(); err != nil && !errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				return nil
			case err := <-errCh:
				_ = srv.Close()
				if err != nil {
					opts.logger.Error("Server error", zap.Error(err))
				}
				return err
			}
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides HOST)")
	return cmd
}
