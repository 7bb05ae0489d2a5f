package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/linkpage/internal/api"
	"github.com/joestump/linkpage/internal/auth"
	"github.com/joestump/linkpage/internal/build"
	"github.com/joestump/linkpage/internal/config"
	"github.com/joestump/linkpage/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log.Level, cfg.Log.Format)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			issuer, err := auth.NewIssuer([]byte(cfg.JWT.Secret), cfg.JWT.TTL)
			if err != nil {
				return err
			}

			b, err := openBackend(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = b.close(context.Background()) }()

			router := api.NewRouter(api.Deps{
				Users:       b.users,
				Links:       b.links,
				Health:      b.health,
				Hasher:      auth.NewHasher(auth.DefaultCost),
				Issuer:      issuer,
				Logger:      logger,
				CORSOrigins: cfg.CORS.Origins,
			})

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening",
					slog.String("addr", srv.Addr),
					slog.String("version", build.String()),
					slog.String("driver", cfg.DB.Driver),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
