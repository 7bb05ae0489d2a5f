package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joestump/linkpage/internal/config"
	"github.com/joestump/linkpage/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQL migrations or create MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.Log.Level, cfg.Log.Format)

			b, err := openBackend(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = b.close(cmd.Context()) }()

			logger.Info("migrations complete", slog.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
