package view

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"marketScope/internal/favorites"
	"marketScope/internal/model"
)

// State is the user-controlled part of the view.
type State struct {
	Sort          SortKey `json:"sort"`
	FavoritesOnly bool    `json:"favorites_only"`
	Search        string  `json:"search"`
}

// Store owns the current dataset and view state. Every read derives the display
// list from scratch; nothing derived is cached.
type Store struct {
	favorites *favorites.Adapter
	logger    *zap.Logger

	mu      sync.RWMutex
	dataset []model.Coin
	state   State
}

// NewStore builds a Store. favs may be nil, in which case no coin is a favorite.
func NewStore(favs *favorites.Adapter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		favorites: favs,
		logger:    logger,
		state:     State{Sort: DefaultSortKey},
	}
}

// ReplaceDataset swaps in a complete dataset.
func (s *Store) ReplaceDataset(coins []model.Coin) {
	s.mu.Lock()
	s.dataset = coins
	s.mu.Unlock()
	s.logger.Debug("dataset replaced", zap.Int("coins", len(coins)))
}

// Dataset returns the held dataset.
func (s *Store) Dataset() []model.Coin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// SetSort changes the sort key.
func (s *Store) SetSort(key SortKey) {
	s.mu.Lock()
	s.state.Sort = key
	s.mu.Unlock()
}

func (s *Store) SetFavoritesOnly(on bool) {
	s.mu.Lock()
	s.state.FavoritesOnly = on
	s.mu.Unlock()
}

func (s *Store) SetSearch(text string) {
	s.mu.Lock()
	s.state.Search = text
	s.mu.Unlock()
}

// State returns the current view state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Favorites returns the current favorite set.
func (s *Store) Favorites() favorites.Set {
	if s.favorites == nil {
		return favorites.Set{}
	}
	return s.favorites.Current()
}

// ToggleFavorite flips id through the favorites adapter, carrying the coin
// symbol from the held dataset when known.
func (s *Store) ToggleFavorite(ctx context.Context, id string) favorites.Set {
	if s.favorites == nil {
		return favorites.Set{}
	}
	return s.favorites.ToggleCoin(ctx, id, s.symbolOf(id))
}

// ClearFavorites empties the favorite set.
func (s *Store) ClearFavorites(ctx context.Context) favorites.Set {
	if s.favorites == nil {
		return favorites.Set{}
	}
	return s.favorites.Clear(ctx)
}

// Display derives the list for the current dataset, favorites and state.
func (s *Store) Display() []model.Coin {
	s.mu.RLock()
	dataset, state := s.dataset, s.state
	s.mu.RUnlock()
	return DeriveDisplayList(dataset, s.Favorites(), state.Sort, state.FavoritesOnly, state.Search)
}

// DisplayWith derives the list using state instead of the stored one.
func (s *Store) DisplayWith(state State) []model.Coin {
	return DeriveDisplayList(s.Dataset(), s.Favorites(), state.Sort, state.FavoritesOnly, state.Search)
}

func (s *Store) symbolOf(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, coin := range s.dataset {
		if coin.ID == id {
			return coin.Symbol
		}
	}
	return ""
}
