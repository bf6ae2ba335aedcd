package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"marketScope/internal/observability"
)

// DefaultKey is the storage key holding the favorite id array.
const DefaultKey = "likedCoins"

// StorageError is a favorites persistence failure. It is logged, never returned
// to callers of the Adapter.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("favorites %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// AdapterConfig holds adapter settings.
type AdapterConfig struct {
	Key      string
	Defaults []string
	// Remote, when set, is merged into the set on Load and mirrors every toggle.
	Remote *Remote
}

// Adapter persists the favorite set through a KV backend. Every mutation is saved
// immediately and mutations are written in the order they were applied; storage
// failures are logged and swallowed.
type Adapter struct {
	kv       KV
	key      string
	defaults Set
	remote   *Remote
	logger   *zap.Logger
	metrics  *observability.Metrics

	// writeMu orders mutations with their writes so the stored set never
	// lags behind current.
	writeMu sync.Mutex

	mu      sync.Mutex
	current Set
}

// NewAdapter builds an Adapter; the current set is empty until Load is called.
func NewAdapter(kv KV, cfg AdapterConfig, logger *zap.Logger, metrics *observability.Metrics) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{
		kv:       kv,
		key:      key,
		defaults: NewSet(cfg.Defaults...),
		remote:   cfg.Remote,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads the stored set. Missing or malformed data yields the default set.
// Remote favorites, if configured, are added and the union is written back.
func (a *Adapter) Load(ctx context.Context) Set {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	loaded := a.read(ctx)
	if a.remote != nil {
		merged := loaded.Union(a.remote.IDs(ctx))
		if !merged.Equal(loaded) {
			a.persist(ctx, merged)
		}
		loaded = merged
	}

	a.mu.Lock()
	a.current = loaded
	a.mu.Unlock()

	a.metrics.FavoritesChanged(loaded.Len())
	return loaded
}

func (a *Adapter) read(ctx context.Context) Set {
	if a.kv == nil {
		return a.defaults
	}

	data, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.report(&StorageError{Op: "load", Key: a.key, Err: err})
		return a.defaults
	}
	if !ok {
		return a.defaults
	}

	var set Set
	if err := json.Unmarshal(data, &set); err != nil {
		a.report(&StorageError{Op: "parse", Key: a.key, Err: err})
		return a.defaults
	}
	return set
}

// Save writes set under the adapter key.
func (a *Adapter) Save(ctx context.Context, set Set) {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	a.persist(ctx, set)
}

func (a *Adapter) persist(ctx context.Context, set Set) {
	if a.kv == nil {
		return
	}

	data, err := json.Marshal(set)
	if err != nil {
		a.report(&StorageError{Op: "marshal", Key: a.key, Err: err})
		return
	}
	if err := a.kv.Set(ctx, a.key, data); err != nil {
		a.report(&StorageError{Op: "save", Key: a.key, Err: err})
	}
}

// Toggle flips membership of id, persists the result and returns it.
func (a *Adapter) Toggle(ctx context.Context, id string) Set {
	return a.ToggleCoin(ctx, id, "")
}

// ToggleCoin is Toggle with the coin symbol carried to the remote mirror.
func (a *Adapter) ToggleCoin(ctx context.Context, id, symbol string) Set {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	next := a.current.Toggle(id)
	a.current = next
	a.mu.Unlock()

	a.persist(ctx, next)
	if a.remote != nil {
		if symbol == "" {
			symbol = id
		}
		a.remote.Mirror(ctx, id, symbol, next.Has(id))
	}
	a.metrics.FavoritesChanged(next.Len())
	a.logger.Debug("favorite toggled", zap.String("id", id), zap.Bool("favorite", next.Has(id)))
	return next
}

// Clear empties the set and persists it.
func (a *Adapter) Clear(ctx context.Context) Set {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()

	a.mu.Lock()
	previous := a.current
	a.current = Set{}
	a.mu.Unlock()

	a.persist(ctx, Set{})
	if a.remote != nil {
		for _, id := range previous.IDs() {
			a.remote.Mirror(ctx, id, id, false)
		}
	}
	a.metrics.FavoritesChanged(0)
	return Set{}
}

// Current returns the in-memory set.
func (a *Adapter) Current() Set {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *Adapter) IsFavorite(id string) bool {
	return a.Current().Has(id)
}

func (a *Adapter) report(err *StorageError) {
	a.metrics.StorageError(err.Op)
	a.logger.Warn("favorites storage failed", zap.String("op", err.Op), zap.Error(err))
}
