package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketScope/internal/model"
	"marketScope/internal/storage"
)

// ErrDisabled is returned by every call on a store built without a DSN.
var ErrDisabled = storage.ErrDisabled

const schema = `
	CREATE TABLE IF NOT EXISTS favorite_coins (
		id BIGSERIAL PRIMARY KEY,
		coin_id TEXT NOT NULL UNIQUE,
		symbol TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// FavoriteStore provides Postgres persistence for remote favorites.
type FavoriteStore struct {
	pool *pgxpool.Pool
}

// NewFavoriteStore connects to dsn. An empty dsn yields a disabled store.
func NewFavoriteStore(ctx context.Context, dsn string) (*FavoriteStore, error) {
	if dsn == "" {
		return &FavoriteStore{}, nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &FavoriteStore{pool: pool}, nil
}

// Enabled reports whether the store is backed by a database.
func (s *FavoriteStore) Enabled() bool {
	return s != nil && s.pool != nil
}

func (s *FavoriteStore) Close() {
	if s.Enabled() {
		s.pool.Close()
	}
}

// EnsureSchema creates the favorites table if missing.
func (s *FavoriteStore) EnsureSchema(ctx context.Context) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Create inserts a favorite or returns the existing one for coinID.
func (s *FavoriteStore) Create(ctx context.Context, coinID, symbol string) (model.FavoriteRecord, error) {
	if !s.Enabled() {
		return model.FavoriteRecord{}, ErrDisabled
	}
	coinID = strings.TrimSpace(coinID)
	if coinID == "" || strings.TrimSpace(symbol) == "" {
		return model.FavoriteRecord{}, fmt.Errorf("coin id and symbol are required")
	}

	var (
		id        int64
		rec       model.FavoriteRecord
		createdAt time.Time
	)
	row := s.pool.QueryRow(ctx, `
		INSERT INTO favorite_coins (coin_id, symbol, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (coin_id) DO UPDATE SET symbol = EXCLUDED.symbol
		RETURNING id, coin_id, symbol, created_at
	`, coinID, strings.ToUpper(symbol))
	if err := row.Scan(&id, &rec.CoinID, &rec.Symbol, &createdAt); err != nil {
		return model.FavoriteRecord{}, fmt.Errorf("insert favorite %s: %w", coinID, err)
	}
	rec.ID = strconv.FormatInt(id, 10)
	rec.CreatedAt = createdAt.UTC()
	return rec, nil
}

// List returns all favorites, newest first.
func (s *FavoriteStore) List(ctx context.Context) ([]model.FavoriteRecord, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, coin_id, symbol, created_at
		FROM favorite_coins
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FavoriteRecord
	for rows.Next() {
		var (
			id        int64
			rec       model.FavoriteRecord
			createdAt time.Time
		)
		if err := rows.Scan(&id, &rec.CoinID, &rec.Symbol, &createdAt); err != nil {
			return nil, err
		}
		rec.ID = strconv.FormatInt(id, 10)
		rec.CreatedAt = createdAt.UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a favorite by record id. Deleting a missing id is not an error.
func (s *FavoriteStore) Delete(ctx context.Context, id string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid favorite id %q: %w", id, err)
	}
	_, err = s.pool.Exec(ctx, `DELETE FROM favorite_coins WHERE id = $1`, n)
	return err
}

// Get returns the favorite for coinID.
func (s *FavoriteStore) Get(ctx context.Context, coinID string) (model.FavoriteRecord, bool, error) {
	if !s.Enabled() {
		return model.FavoriteRecord{}, false, ErrDisabled
	}
	var (
		id        int64
		rec       model.FavoriteRecord
		createdAt time.Time
	)
	row := s.pool.QueryRow(ctx, `SELECT id, coin_id, symbol, created_at FROM favorite_coins WHERE coin_id=$1`, coinID)
	if err := row.Scan(&id, &rec.CoinID, &rec.Symbol, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.FavoriteRecord{}, false, nil
		}
		return model.FavoriteRecord{}, false, err
	}
	rec.ID = strconv.FormatInt(id, 10)
	rec.CreatedAt = createdAt.UTC()
	return rec, true, nil
}
