package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"marketScope/internal/api"
	"marketScope/internal/market"
	"marketScope/internal/observability"
	"marketScope/internal/storage"
	"marketScope/internal/view"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fc, err := cfg.FetchConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics("")
	client, err := newClient(cfg, logger, metrics)
	if err != nil {
		return err
	}

	favs, closeFavs, err := openFavorites(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer closeFavs()

	store := view.NewStore(favs, logger)
	opts := []market.LoaderOption{market.WithReplacer(store)}
	if cfg.Out != "" {
		opts = append(opts, market.WithSink(storage.NewSnapshotLog(cfg.Out)))
	}
	loader := market.NewLoader(market.NewFetcher(fc, client, logger, metrics), logger, metrics, opts...)

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           api.NewServer(loader, store, client, metrics, logger).WithBaseContext(gctx).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("http server start", zap.String("listen", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Initial load; later cycles are requested through POST /api/refresh.
		if _, err := loader.Refresh(gctx, statusLogger(logger)); err != nil {
			logger.Warn("initial fetch failed", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
