package favorites

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketScope/internal/model"
	"marketScope/internal/storage"
)

type fakeRemoteStore struct {
	mu      sync.Mutex
	nextID  int
	records []model.FavoriteRecord
	listErr error
}

func (f *fakeRemoteStore) List(ctx context.Context) ([]model.FavoriteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.FavoriteRecord(nil), f.records...), nil
}

func (f *fakeRemoteStore) Create(ctx context.Context, coinID, symbol string) (model.FavoriteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rec := model.FavoriteRecord{
		ID:        strconv.Itoa(f.nextID),
		CoinID:    coinID,
		Symbol:    symbol,
		CreatedAt: time.Now().UTC(),
	}
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeRemoteStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRemoteStore) coinIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.records))
	for _, rec := range f.records {
		out = append(out, rec.CoinID)
	}
	return out
}

func TestAdapter_RemoteMergedOnLoad(t *testing.T) {
	ctx := context.Background()
	store := &fakeRemoteStore{}
	_, _ = store.Create(ctx, "solana", "sol")

	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, DefaultKey, []byte(`["bitcoin"]`)))

	a := NewAdapter(kv, AdapterConfig{Remote: NewRemote(store, nil)}, nil, nil)
	loaded := a.Load(ctx)
	assert.Equal(t, []string{"bitcoin", "solana"}, loaded.IDs())

	data, _, err := kv.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["bitcoin","solana"]`, string(data), "merged set is written back")
}

func TestAdapter_ToggleMirrorsRemote(t *testing.T) {
	ctx := context.Background()
	store := &fakeRemoteStore{}
	a := NewAdapter(NewMemoryKV(), AdapterConfig{Remote: NewRemote(store, nil)}, nil, nil)
	a.Load(ctx)

	a.ToggleCoin(ctx, "bitcoin", "btc")
	a.Toggle(ctx, "ethereum")
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum"}, store.coinIDs())
	assert.Equal(t, "btc", store.records[0].Symbol)
	assert.Equal(t, "ethereum", store.records[1].Symbol)

	a.Toggle(ctx, "bitcoin")
	assert.Equal(t, []string{"ethereum"}, store.coinIDs())

	a.Clear(ctx)
	assert.Empty(t, store.coinIDs())
}

func TestAdapter_DisabledRemoteIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := &fakeRemoteStore{listErr: storage.ErrDisabled}
	a := NewAdapter(NewMemoryKV(), AdapterConfig{Defaults: []string{"tether"}, Remote: NewRemote(store, nil)}, nil, nil)

	assert.Equal(t, []string{"tether"}, a.Load(ctx).IDs())
}

func TestAdapter_RemoteFailureDoesNotBlockLocal(t *testing.T) {
	ctx := context.Background()
	store := &fakeRemoteStore{listErr: errors.New("connection refused")}
	a := NewAdapter(NewMemoryKV(), AdapterConfig{Remote: NewRemote(store, nil)}, nil, nil)
	a.Load(ctx)

	next := a.Toggle(ctx, "dogecoin")
	assert.True(t, next.Has("dogecoin"))
}

func TestRemote_NilIsNoop(t *testing.T) {
	var r *Remote
	assert.Equal(t, 0, r.IDs(context.Background()).Len())
	r.Mirror(context.Background(), "x", "x", true)
}
