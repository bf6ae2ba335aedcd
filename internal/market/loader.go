package market

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"marketScope/internal/coingecko"
	"marketScope/internal/model"
	"marketScope/internal/observability"
	"marketScope/internal/storage"
)

// ErrFetchInProgress is returned when a refresh is requested while a cycle runs.
var ErrFetchInProgress = errors.New("fetch already in progress")

// Dataset is the merged, rank-normalized result of one fetch cycle.
type Dataset struct {
	Coins     []model.Coin
	Currency  string
	FetchedAt time.Time
}

// Replacer takes ownership of each newly completed dataset.
type Replacer interface {
	ReplaceDataset(coins []model.Coin)
}

// Loader runs at most one fetch cycle at a time and publishes only complete datasets.
type Loader struct {
	fetcher  *Fetcher
	currency string
	target   Replacer
	sink     storage.Sink
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time

	loading atomic.Bool
	current atomic.Pointer[Dataset]

	mu      sync.RWMutex
	lastErr error
}

// LoaderOption configures Loader.
type LoaderOption func(*Loader)

// WithSink appends every completed dataset to sink.
func WithSink(sink storage.Sink) LoaderOption {
	return func(l *Loader) {
		l.sink = sink
	}
}

// WithReplacer hands every completed dataset to target.
func WithReplacer(target Replacer) LoaderOption {
	return func(l *Loader) {
		l.target = target
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// NewLoader builds a Loader around fetcher.
func NewLoader(fetcher *Fetcher, logger *zap.Logger, metrics *observability.Metrics, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{
		fetcher:  fetcher,
		currency: fetcher.cfg.Currency,
		logger:   logger,
		metrics:  metrics,
		now:      time.Now,
	}
	if l.currency == "" {
		l.currency = coingecko.DefaultCurrency
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Refresh runs one fetch cycle. A call made while another cycle is running returns
// ErrFetchInProgress without touching upstream. On failure the previously held
// dataset stays current and the error is kept as LastError.
func (l *Loader) Refresh(ctx context.Context, onStatus coingecko.StatusFunc) (*Dataset, error) {
	if !l.loading.CompareAndSwap(false, true) {
		l.logger.Info("refresh ignored", zap.Error(ErrFetchInProgress))
		l.metrics.CycleFinished("skipped", l.now(), 0)
		return nil, ErrFetchInProgress
	}
	defer l.loading.Store(false)

	started := l.now()
	l.setLastErr(nil)

	coins, err := l.fetcher.FetchAllPages(ctx, onStatus)
	if err != nil {
		l.setLastErr(err)
		l.metrics.CycleFinished("error", started, 0)
		l.logger.Error("fetch cycle failed", zap.Error(err), zap.Duration("elapsed", l.now().Sub(started)))
		return nil, err
	}

	ds := &Dataset{
		Coins:     coins,
		Currency:  l.currency,
		FetchedAt: l.now().UTC(),
	}
	l.current.Store(ds)
	if l.target != nil {
		l.target.ReplaceDataset(coins)
	}
	l.metrics.CycleFinished("success", started, len(coins))
	l.logger.Info("fetch cycle complete", zap.Int("coins", len(coins)), zap.Duration("elapsed", l.now().Sub(started)))

	if l.sink != nil {
		if err := l.sink.PutSnapshot(snapshotRecords(ds)); err != nil {
			l.logger.Warn("snapshot write failed", zap.Error(err))
		}
	}

	return ds, nil
}

// Current returns the last complete dataset, or nil before the first success.
func (l *Loader) Current() *Dataset {
	return l.current.Load()
}

// IsLoading reports whether a cycle is in flight.
func (l *Loader) IsLoading() bool {
	return l.loading.Load()
}

// LastError returns the error of the most recent cycle, nil after a success.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

func (l *Loader) setLastErr(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}

func snapshotRecords(ds *Dataset) []model.SnapshotRecord {
	fetchedAt := ds.FetchedAt.Format(time.RFC3339Nano)
	records := make([]model.SnapshotRecord, 0, len(ds.Coins))
	for _, coin := range ds.Coins {
		records = append(records, model.SnapshotRecord{
			FetchedAt: fetchedAt,
			Currency:  ds.Currency,
			Coin:      coin,
		})
	}
	return records
}
