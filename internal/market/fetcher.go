package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"marketScope/internal/coingecko"
	"marketScope/internal/model"
	"marketScope/internal/observability"
)

// ErrDuplicateCoin marks a coin id that already appeared on an earlier page.
var ErrDuplicateCoin = errors.New("duplicate coin id")

// PageSource fetches single listing pages and provides the shared wait primitive.
type PageSource interface {
	Markets(ctx context.Context, q coingecko.MarketsQuery, onStatus coingecko.StatusFunc) ([]model.Coin, error)
	Sleep(ctx context.Context, d time.Duration) error
}

// Fetcher runs the paginated fetch of one dataset.
type Fetcher struct {
	cfg     FetchConfig
	source  PageSource
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewFetcher builds a Fetcher with its dependencies.
func NewFetcher(cfg FetchConfig, source PageSource, logger *zap.Logger, metrics *observability.Metrics) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:     cfg.clone(),
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Config returns a copy of the fetch configuration.
func (f *Fetcher) Config() FetchConfig {
	return f.cfg.clone()
}

// FetchAllPages requests every configured page in order, one at a time, waiting
// PageDelay between consecutive requests. Ids already seen on an earlier page are
// dropped, and every page after the first is ranked as a continuation of the kept
// coins. Any page failure aborts the cycle with no partial result.
func (f *Fetcher) FetchAllPages(ctx context.Context, onStatus coingecko.StatusFunc) ([]model.Coin, error) {
	if f.source == nil {
		return nil, fmt.Errorf("page source is nil")
	}
	if err := f.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch config: %w", err)
	}

	pages := f.cfg.Pages
	all := make([]model.Coin, 0, f.cfg.TotalSize())
	seen := make(map[string]struct{}, f.cfg.TotalSize())

	for i, page := range pages {
		if i > 0 && f.cfg.PageDelay > 0 {
			if err := f.source.Sleep(ctx, f.cfg.PageDelay); err != nil {
				return nil, err
			}
		}

		if onStatus != nil {
			onStatus(fmt.Sprintf("Fetching page %d of %d...", i+1, len(pages)))
		}
		f.logger.Info("fetch page", zap.Int("page", page.Number), zap.Int("per_page", page.PerPage))

		coins, err := f.source.Markets(ctx, coingecko.MarketsQuery{
			Page:             page.Number,
			PerPage:          page.PerPage,
			IncludeSparkline: f.cfg.IncludeSparkline,
		}, onStatus)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page.Number, err)
		}
		f.metrics.PageFetched()

		normalized := NormalizeRanks(pages, i, coins)
		kept := f.dropSeen(seen, normalized)
		if i > 0 && (len(kept) != len(normalized) || len(all) != RankOffset(pages, i)) {
			// Continue from the coins actually kept so dropped duplicates leave no gap.
			continueRanks(len(all), kept)
		}
		all = append(all, kept...)
		f.logger.Info("page complete", zap.Int("page", page.Number), zap.Int("coins", len(kept)))
	}

	return all, nil
}

// dropSeen returns a copy of coins without ids already in seen, recording the
// kept ids. The first occurrence of an id wins.
func (f *Fetcher) dropSeen(seen map[string]struct{}, coins []model.Coin) []model.Coin {
	out := make([]model.Coin, 0, len(coins))
	for _, coin := range coins {
		if _, ok := seen[coin.ID]; ok {
			f.logger.Warn("drop coin", zap.String("id", coin.ID), zap.Error(ErrDuplicateCoin))
			f.metrics.DuplicateDropped()
			continue
		}
		seen[coin.ID] = struct{}{}
		out = append(out, coin)
	}
	return out
}
