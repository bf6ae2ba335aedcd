package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/coingecko"
	"marketScope/internal/config"
	"marketScope/internal/favorites"
	"marketScope/internal/observability"
	"marketScope/internal/storage/postgres"
)

func loadConfig(cmd *cobra.Command) (config.Config, *zap.Logger, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func newClient(cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*coingecko.Client, error) {
	fc, err := cfg.FetchConfig()
	if err != nil {
		return nil, err
	}
	opts := append(fc.ClientOptions(), coingecko.WithLogger(logger), coingecko.WithMetrics(metrics))
	return coingecko.NewClient(opts...), nil
}

// openFavorites builds the favorites adapter for the configured backend and loads it.
// The returned close func releases the backend.
func openFavorites(ctx context.Context, cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*favorites.Adapter, func(), error) {
	var (
		kv      favorites.KV
		closers []func()
	)
	switch cfg.FavoritesBackend {
	case "", "file":
		kv = &favorites.FileKV{Dir: cfg.FavoritesPath}
	case "sqlite":
		path := cfg.FavoritesPath
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "favorites.db")
		}
		sqliteKV, err := favorites.OpenSQLiteKV(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { sqliteKV.Close() })
		kv = sqliteKV
	case "memory":
		kv = favorites.NewMemoryKV()
	default:
		return nil, nil, fmt.Errorf("unknown favorites backend %q", cfg.FavoritesBackend)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	pg, err := postgres.NewFavoriteStore(ctx, cfg.PGDSN)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("connect remote favorites: %w", err)
	}
	closers = append(closers, pg.Close)
	if pg.Enabled() {
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("remote favorites schema: %w", err)
		}
	}

	adapter := favorites.NewAdapter(kv, favorites.AdapterConfig{
		Key:      cfg.FavoritesKey,
		Defaults: cfg.DefaultFavorites,
		Remote:   favorites.NewRemote(pg, logger),
	}, logger, metrics)
	adapter.Load(ctx)

	logger.Debug("favorites loaded",
		zap.String("backend", cfg.FavoritesBackend),
		zap.Bool("remote", pg.Enabled()),
		zap.Int("count", adapter.Current().Len()),
	)
	return adapter, closeAll, nil
}
