package view

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"marketScope/internal/model"
)

// SortKey selects the display order.
type SortKey string

const (
	SortMarketCapDesc SortKey = "market_cap_desc"
	SortMarketCapAsc  SortKey = "market_cap_asc"
	SortPriceDesc     SortKey = "price_desc"
	SortPriceAsc      SortKey = "price_asc"
	SortNameAsc       SortKey = "name_asc"
	SortNameDesc      SortKey = "name_desc"
	SortChangeDesc    SortKey = "change_desc"
	SortChangeAsc     SortKey = "change_asc"
	SortChange1hDesc  SortKey = "change_1h_desc"
	SortChange1hAsc   SortKey = "change_1h_asc"
	SortChange7dDesc  SortKey = "change_7d_desc"
	SortChange7dAsc   SortKey = "change_7d_asc"
	SortVolumeDesc    SortKey = "volume_desc"
	SortVolumeAsc     SortKey = "volume_asc"
	SortRankAsc       SortKey = "rank_asc"
	SortRankDesc      SortKey = "rank_desc"
	SortLiked         SortKey = "liked"

	DefaultSortKey = SortMarketCapDesc
)

var sortKeys = []SortKey{
	SortMarketCapDesc, SortMarketCapAsc,
	SortPriceDesc, SortPriceAsc,
	SortNameAsc, SortNameDesc,
	SortChangeDesc, SortChangeAsc,
	SortChange1hDesc, SortChange1hAsc,
	SortChange7dDesc, SortChange7dAsc,
	SortVolumeDesc, SortVolumeAsc,
	SortRankAsc, SortRankDesc,
	SortLiked,
}

// SortKeys lists every supported key.
func SortKeys() []SortKey {
	return append([]SortKey(nil), sortKeys...)
}

// ParseSortKey validates raw. An empty string yields DefaultSortKey.
func ParseSortKey(raw string) (SortKey, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return DefaultSortKey, nil
	}
	for _, key := range sortKeys {
		if string(key) == raw {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// Membership reports whether a coin id is a favorite.
type Membership interface {
	Has(id string) bool
}

type noFavorites struct{}

func (noFavorites) Has(string) bool { return false }

// sortCoins orders coins in place. Equal elements keep their input order; an
// unknown key leaves the slice untouched.
func sortCoins(coins []model.Coin, key SortKey, favs Membership) {
	less := comparator(coins, key, favs)
	if less == nil {
		return
	}
	sort.SliceStable(coins, less)
}

func comparator(coins []model.Coin, key SortKey, favs Membership) func(i, j int) bool {
	numeric := func(field func(model.Coin) *float64, desc bool) func(i, j int) bool {
		return func(i, j int) bool {
			a, b := model.Value(field(coins[i])), model.Value(field(coins[j]))
			if desc {
				return a > b
			}
			return a < b
		}
	}

	switch key {
	case SortMarketCapDesc:
		return numeric(marketCap, true)
	case SortMarketCapAsc:
		return numeric(marketCap, false)
	case SortPriceDesc:
		return numeric(price, true)
	case SortPriceAsc:
		return numeric(price, false)
	case SortChangeDesc:
		return numeric(change24h, true)
	case SortChangeAsc:
		return numeric(change24h, false)
	case SortChange1hDesc:
		return numeric(change1h, true)
	case SortChange1hAsc:
		return numeric(change1h, false)
	case SortChange7dDesc:
		return numeric(change7d, true)
	case SortChange7dAsc:
		return numeric(change7d, false)
	case SortVolumeDesc:
		return numeric(volume, true)
	case SortVolumeAsc:
		return numeric(volume, false)
	case SortNameAsc:
		return func(i, j int) bool {
			return strings.ToLower(coins[i].Name) < strings.ToLower(coins[j].Name)
		}
	case SortNameDesc:
		return func(i, j int) bool {
			return strings.ToLower(coins[i].Name) > strings.ToLower(coins[j].Name)
		}
	case SortRankAsc:
		return func(i, j int) bool {
			return rank(coins[i]) < rank(coins[j])
		}
	case SortRankDesc:
		return func(i, j int) bool {
			return rank(coins[i]) > rank(coins[j])
		}
	case SortLiked:
		return func(i, j int) bool {
			a, b := favs.Has(coins[i].ID), favs.Has(coins[j].ID)
			if a != b {
				return a
			}
			return model.Value(coins[i].MarketCap) > model.Value(coins[j].MarketCap)
		}
	default:
		return nil
	}
}

func marketCap(c model.Coin) *float64 { return c.MarketCap }
func price(c model.Coin) *float64     { return c.CurrentPrice }
func change24h(c model.Coin) *float64 { return c.Change24h }
func change1h(c model.Coin) *float64  { return c.Change1h }
func change7d(c model.Coin) *float64  { return c.Change7d }
func volume(c model.Coin) *float64    { return c.TotalVolume }

// rank treats a missing rank as infinitely large.
func rank(c model.Coin) int {
	if c.MarketCapRank == nil {
		return math.MaxInt
	}
	return *c.MarketCapRank
}
