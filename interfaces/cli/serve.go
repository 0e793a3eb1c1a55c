package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"thoughtgraph/infrastructure/clock"
	"thoughtgraph/infrastructure/config"
	"thoughtgraph/infrastructure/di"
	"thoughtgraph/interfaces/http/rest"
)

const shutdownTimeout = 5 * time.Second

func serveCmd(opts *options) *cobra.Command {
	var (
		addr    string
		origins []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph with a live orbit and serve the inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			loader, cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			c, cleanup, err := di.InitializeContainer(ctx, cfg, clock.System{})
			if err != nil {
				return err
			}
			defer cleanup()
			defer c.Logger.Sync()

			c.Settings.Load(ctx)
			if _, err := c.Graph.Reload(ctx); err != nil {
				c.Logger.Warn("initial graph load failed; serving an empty graph", zap.Error(err))
			}

			watcher := config.NewWatcher(loader, cfg, c.Logger.Named("config"))
			c.Watch(watcher)
			if err := watcher.Start(); err != nil {
				return err
			}
			defer watcher.Stop()

			go func() {
				if err := c.Orbit.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					c.Logger.Error("orbit stopped", zap.Error(err))
				}
			}()

			server := &http.Server{
				Addr:              addr,
				Handler:           rest.NewRouter(c, origins).Setup(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("inspection server listening", zap.String("addr", addr))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down inspection server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8089", "listen address")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", []string{"http://localhost:5173"}, "origins allowed to call the API from a browser")
	return cmd
}
