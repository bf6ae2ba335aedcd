package model

import "time"

// FavoriteRecord is a favorite stored in the optional remote store.
type FavoriteRecord struct {
	ID        string    `json:"id"`
	CoinID    string    `json:"coin_id"`
	Symbol    string    `json:"symbol"`
	CreatedAt time.Time `json:"created_at"`
}
