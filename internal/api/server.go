// Package api serves the held market dataset, favorites and upstream lookups over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketScope/internal/coingecko"
	"marketScope/internal/market"
	"marketScope/internal/model"
	"marketScope/internal/observability"
	"marketScope/internal/view"
)

// Upstream is the subset of the provider client used for direct lookups.
type Upstream interface {
	Global(ctx context.Context, onStatus coingecko.StatusFunc) (model.GlobalSnapshot, error)
	SimplePrice(ctx context.Context, id string, onStatus coingecko.StatusFunc) (float64, error)
}

// Server wires HTTP handlers to the loader, view store and upstream client.
type Server struct {
	loader   *market.Loader
	store    *view.Store
	upstream Upstream
	metrics  *observability.Metrics
	logger   *zap.Logger
	baseCtx  context.Context
}

func NewServer(loader *market.Loader, store *view.Store, upstream Upstream, metrics *observability.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		loader:   loader,
		store:    store,
		upstream: upstream,
		metrics:  metrics,
		logger:   logger,
		baseCtx:  context.Background(),
	}
}

// WithBaseContext sets the context refresh cycles run under. Cycles outlive the
// request that started them but stop when ctx is canceled.
func (s *Server) WithBaseContext(ctx context.Context) *Server {
	if ctx != nil {
		s.baseCtx = ctx
	}
	return s
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("GET /api/markets", s.handleMarkets)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
	mux.HandleFunc("GET /api/global", s.handleGlobal)
	mux.HandleFunc("GET /api/price", s.handlePrice)
	mux.HandleFunc("GET /api/favorites", s.handleFavoritesList)
	mux.HandleFunc("POST /api/favorites", s.handleFavoritesToggle)
	mux.HandleFunc("DELETE /api/favorites", s.handleFavoritesClear)

	return mux
}

// MarketsResponse is the JSON body of /api/markets.
type MarketsResponse struct {
	view.PageResult
	CountLabel string     `json:"count_label"`
	State      view.State `json:"state"`
	FetchedAt  *time.Time `json:"fetched_at,omitempty"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := s.store.State()

	if raw := q.Get("sort"); raw != "" {
		key, err := view.ParseSortKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		state.Sort = key
	}
	if raw := q.Get("favorites"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "favorites must be a boolean")
			return
		}
		state.FavoritesOnly = on
	}
	if q.Has("search") {
		state.Search = q.Get("search")
	}
	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	perPage, err := intParam(q.Get("perPage"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "perPage must be an integer")
		return
	}

	list := s.store.DisplayWith(state)
	resp := MarketsResponse{
		PageResult: view.Paginate(list, page, perPage),
		CountLabel: view.CountLabel(len(list)),
		State:      state,
		Loading:    s.loader.IsLoading(),
	}
	if ds := s.loader.Current(); ds != nil {
		fetchedAt := ds.FetchedAt
		resp.FetchedAt = &fetchedAt
	}
	if err := s.loader.LastError(); err != nil {
		resp.Error = coingecko.UserMessage(err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// A started cycle is not tied to the client connection, only to the server.
	ds, err := s.loader.Refresh(s.baseCtx, s.statusLogger())
	if errors.Is(err, market.ErrFetchInProgress) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, coingecko.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"coins":      len(ds.Coins),
		"currency":   ds.Currency,
		"fetched_at": ds.FetchedAt,
	})
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.upstream.Global(r.Context(), s.statusLogger())
	if err != nil {
		writeError(w, http.StatusBadGateway, coingecko.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			writeError(w, http.StatusBadRequest, "symbol or id is required")
			return
		}
		resolved, err := coingecko.ResolveSymbol(symbol)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		id = resolved
	}

	price, err := s.upstream.SimplePrice(r.Context(), id, s.statusLogger())
	if errors.Is(err, coingecko.ErrUnknownAsset) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, coingecko.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "price": price})
}

type favoritesResponse struct {
	IDs []string `json:"ids"`
}

type toggleRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, favoritesResponse{IDs: s.store.Favorites().IDs()})
}

func (s *Server) handleFavoritesToggle(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" && r.Body != nil {
		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		id = req.ID
	}
	id = strings.TrimSpace(id)
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	set := s.store.ToggleFavorite(r.Context(), id)
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"favorite": set.Has(id),
		"ids":      set.IDs(),
	})
}

func (s *Server) handleFavoritesClear(w http.ResponseWriter, r *http.Request) {
	set := s.store.ClearFavorites(r.Context())
	writeJSON(w, http.StatusOK, favoritesResponse{IDs: set.IDs()})
}

func (s *Server) statusLogger() coingecko.StatusFunc {
	return func(msg string) {
		s.logger.Info("fetch status", zap.String("status", msg))
	}
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
