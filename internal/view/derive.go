package view

import (
	"strings"

	"marketScope/internal/model"
)

// DeriveDisplayList filters then sorts dataset into a newly allocated slice.
// The dataset is never modified; identical inputs give identical output.
func DeriveDisplayList(dataset []model.Coin, favs Membership, key SortKey, favoritesOnly bool, search string) []model.Coin {
	if favs == nil {
		favs = noFavorites{}
	}
	needle := strings.ToLower(search)

	out := make([]model.Coin, 0, len(dataset))
	for _, coin := range dataset {
		if favoritesOnly && !favs.Has(coin.ID) {
			continue
		}
		if needle != "" && !matches(coin, needle) {
			continue
		}
		out = append(out, coin)
	}

	sortCoins(out, key, favs)
	return out
}

func matches(coin model.Coin, needle string) bool {
	return strings.Contains(strings.ToLower(coin.Name), needle) ||
		strings.Contains(strings.ToLower(coin.Symbol), needle)
}
