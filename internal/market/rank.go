package market

import "marketScope/internal/model"

// RankOffset is the number of coins requested by all pages before index.
func RankOffset(pages []Page, index int) int {
	offset := 0
	for i := 0; i < index && i < len(pages); i++ {
		offset += pages[i].PerPage
	}
	return offset
}

// NormalizeRanks rewrites market_cap_rank for every page after the first so the
// merged dataset continues the global sequence: offset + local index + 1.
// Ranks on the first page are trusted as reported. The input slice is not modified.
func NormalizeRanks(pages []Page, index int, coins []model.Coin) []model.Coin {
	out := make([]model.Coin, len(coins))
	copy(out, coins)
	if index <= 0 {
		return out
	}

	return continueRanks(RankOffset(pages, index), out)
}

// continueRanks assigns offset+1, offset+2, ... to coins in place.
func continueRanks(offset int, coins []model.Coin) []model.Coin {
	for i := range coins {
		coins[i].MarketCapRank = model.Rank(offset + i + 1)
	}
	return coins
}
