package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joestump/linkpage/internal/config"
	"github.com/joestump/linkpage/internal/db"
	"github.com/joestump/linkpage/internal/store"
	"github.com/joestump/linkpage/internal/store/mongostore"
)

// backend is an opened persistence layer with its schema in place.
type backend struct {
	users  store.Users
	links  store.Links
	health store.Pinger
	close  func(ctx context.Context) error
}

// openBackend connects to the configured database and brings its schema up
// to date: goose migrations for SQL, indexes for MongoDB.
func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	if !cfg.IsSQL() {
		mdb, err := mongostore.Connect(ctx, cfg.DB.DSN, cfg.DB.Name)
		if err != nil {
			return nil, err
		}
		if err := mdb.EnsureIndexes(ctx); err != nil {
			_ = mdb.Close(context.Background())
			return nil, err
		}
		logger.Info("connected to mongodb", slog.String("database", cfg.DB.Name))
		return &backend{
			users:  mdb.Users(),
			links:  mdb.Links(),
			health: mdb,
			close:  mdb.Close,
		}, nil
	}

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := database.PingContext(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DB.Driver, err)
	}
	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		_ = database.Close()
		return nil, err
	}
	logger.Info("connected to sql database", slog.String("driver", cfg.DB.Driver))

	users := store.NewUserStore(database)
	return &backend{
		users:  users,
		links:  store.NewLinkStore(database),
		health: users,
		close:  func(context.Context) error { return database.Close() },
	}, nil
}
