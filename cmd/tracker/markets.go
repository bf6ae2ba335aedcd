package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketScope/internal/coingecko"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/observability"
	"marketScope/internal/storage"
	"marketScope/internal/view"
)

func runMarkets(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sortKey, err := view.ParseSortKey(cfg.Sort)
	if err != nil {
		return err
	}
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
	store.SetSort(sortKey)
	store.SetFavoritesOnly(cfg.FavoritesOnly)
	store.SetSearch(cfg.Search)

	opts := []market.LoaderOption{market.WithReplacer(store)}
	if cfg.Out != "" {
		opts = append(opts, market.WithSink(storage.NewSnapshotLog(cfg.Out)))
	}
	loader := market.NewLoader(market.NewFetcher(fc, client, logger, metrics), logger, metrics, opts...)

	logger.Info("markets fetch start",
		zap.String("currency", fc.Currency),
		zap.Int("pages", len(fc.Pages)),
		zap.Int("expected", fc.TotalSize()),
		zap.String("sort", string(sortKey)),
	)

	if _, err := loader.Refresh(ctx, statusLogger(logger)); err != nil {
		return errors.New(coingecko.UserMessage(err))
	}

	list := store.Display()
	page := view.Paginate(list, cfg.Page, cfg.PerPage)
	return printMarkets(cmd.OutOrStdout(), page, view.CountLabel(len(list)), favs.Current())
}

type membership interface {
	Has(id string) bool
}

func printMarkets(w io.Writer, page view.PageResult, label string, favs membership) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tSYMBOL\tPRICE\t1H\t24H\t7D\tMARKET CAP\tVOLUME\t")
	for _, coin := range page.Coins {
		star := ""
		if favs.Has(coin.ID) {
			star = " *"
		}
		fmt.Fprintf(tw, "%s\t%s%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			rankLabel(coin),
			coin.Name, star,
			coin.Symbol,
			view.FormatPrice(coin.CurrentPrice),
			view.FormatChange(coin.Change1h),
			view.FormatChange(coin.Change24h),
			view.FormatChange(coin.Change7d),
			view.FormatMarketCap(coin.MarketCap),
			view.FormatMarketCap(coin.TotalVolume),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s (page %d of %d)\n", label, page.Page, page.TotalPages)
	return err
}

func rankLabel(coin model.Coin) string {
	if coin.MarketCapRank == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *coin.MarketCapRank)
}
