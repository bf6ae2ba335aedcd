package favorites

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"marketScope/internal/model"
	"marketScope/internal/storage"
)

// RemoteStore is the optional remote favorites collaborator.
type RemoteStore interface {
	List(ctx context.Context) ([]model.FavoriteRecord, error)
	Create(ctx context.Context, coinID, symbol string) (model.FavoriteRecord, error)
	Delete(ctx context.Context, id string) error
}

// Remote mirrors local favorites to a RemoteStore. A disabled store behaves as empty.
type Remote struct {
	store  RemoteStore
	logger *zap.Logger
}

func NewRemote(store RemoteStore, logger *zap.Logger) *Remote {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Remote{store: store, logger: logger}
}

// IDs returns the coin ids held remotely. Errors yield the empty set.
func (r *Remote) IDs(ctx context.Context) Set {
	records := r.list(ctx)
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.CoinID)
	}
	return NewSet(ids...)
}

// Mirror records a toggle remotely: create when favorited, delete otherwise.
func (r *Remote) Mirror(ctx context.Context, coinID, symbol string, favorited bool) {
	if r == nil || r.store == nil {
		return
	}

	if favorited {
		if _, err := r.store.Create(ctx, coinID, symbol); err != nil && !errors.Is(err, storage.ErrDisabled) {
			r.logger.Warn("remote favorite create failed", zap.String("coin_id", coinID), zap.Error(err))
		}
		return
	}

	for _, rec := range r.list(ctx) {
		if rec.CoinID != coinID {
			continue
		}
		if err := r.store.Delete(ctx, rec.ID); err != nil && !errors.Is(err, storage.ErrDisabled) {
			r.logger.Warn("remote favorite delete failed", zap.String("coin_id", coinID), zap.Error(err))
		}
	}
}

func (r *Remote) list(ctx context.Context) []model.FavoriteRecord {
	if r == nil || r.store == nil {
		return nil
	}
	records, err := r.store.List(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrDisabled) {
			r.logger.Warn("remote favorites list failed", zap.Error(err))
		}
		return nil
	}
	return records
}
