package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketScope/internal/model"
)

// recordingSleeper records waits instead of sleeping.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return nil
}

func (s *recordingSleeper) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

func newTestClient(serverURL string, sleeper *recordingSleeper, opts ...ClientOption) *Client {
	base := []ClientOption{
		WithBaseURL(serverURL),
		WithSleeper(sleeper.Sleep),
		WithRetryPolicy(RetryPolicy{
			MaxRetries:     3,
			RateLimitDelay: 60 * time.Second,
			ErrorDelay:     2 * time.Second,
		}),
	}
	return NewClient(append(base, opts...)...)
}

func TestFetchWithRetry_RateLimitedThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(server.URL, sleeper)

	var statuses []string
	body, err := client.FetchWithRetry(context.Background(), server.URL+"/coins/markets", func(msg string) {
		statuses = append(statuses, msg)
	})
	require.NoError(t, err)

	assert.Equal(t, "[]", string(body))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []time.Duration{60 * time.Second, 120 * time.Second}, sleeper.Waits())
	assert.Equal(t, []string{
		"Rate limited. Waiting 60s before retry (1/3)...",
		"Rate limited. Waiting 120s before retry (2/3)...",
	}, statuses)
}

func TestFetchWithRetry_RateLimitedExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(server.URL, sleeper)

	_, err := client.FetchWithRetry(context.Background(), server.URL, nil)
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRateLimited)
	var rl *RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 3, rl.Attempts)
	assert.Contains(t, err.Error(), "try again in a few minutes")
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, sleeper.Waits(), 2, "no wait after the final attempt")
}

func TestFetchWithRetry_HTTPErrorUsesShortBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(server.URL, sleeper)

	var statuses []string
	_, err := client.FetchWithRetry(context.Background(), server.URL, func(msg string) {
		statuses = append(statuses, msg)
	})

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Body)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.Waits())
	assert.Equal(t, "Connection error. Retrying in 2s (1/3)...", statuses[0])
}

func TestFetchWithRetry_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := server.URL
	server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(deadURL, sleeper)

	_, err := client.FetchWithRetry(context.Background(), deadURL, nil)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, sleeper.Waits())
}

func TestFetchWithRetry_MixedFailuresThenSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.WriteHeader(http.StatusBadGateway)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(server.URL, sleeper)

	_, err := client.FetchWithRetry(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 120 * time.Second}, sleeper.Waits())
}

func TestFetchWithRetry_NoRetryOnSuccess(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	sleeper := &recordingSleeper{}
	client := newTestClient(server.URL, sleeper)

	_, err := client.FetchWithRetry(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, sleeper.Waits())
}

func TestFetchWithRetry_SendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "demo-key", r.Header.Get("x-cg-demo-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &recordingSleeper{}, WithAPIKey(" demo-key "))
	_, err := client.FetchWithRetry(context.Background(), server.URL, nil)
	require.NoError(t, err)
}

func TestFetchWithRetry_ContextCancelledDuringWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(
		WithBaseURL(server.URL),
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := client.FetchWithRetry(ctx, server.URL, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMarketsURL(t *testing.T) {
	client := NewClient(WithBaseURL("https://example.test/api/v3/"), WithCurrency("EUR"))

	raw := client.MarketsURL(MarketsQuery{Page: 2, PerPage: 50})
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/coins/markets", u.Path)
	q := u.Query()
	assert.Equal(t, "eur", q.Get("vs_currency"))
	assert.Equal(t, "market_cap_desc", q.Get("order"))
	assert.Equal(t, "50", q.Get("per_page"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "false", q.Get("sparkline"))
	assert.Equal(t, "1h,24h,7d", q.Get("price_change_percentage"))
}

func TestMarkets_DecodesCoins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","image":"https://img/btc.png",
			 "current_price":67000.5,"market_cap":1300000000000,"market_cap_rank":1,
			 "total_volume":25000000000,"price_change_percentage_24h":2.5,
			 "sparkline_in_7d":{"price":[1,2,3]}},
			{"id":"mystery","symbol":"mys","name":"Mystery","image":"",
			 "current_price":null,"market_cap":null,"market_cap_rank":null,
			 "total_volume":null,"price_change_percentage_24h":null}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &recordingSleeper{})
	coins, err := client.Markets(context.Background(), MarketsQuery{Page: 1, PerPage: 2, IncludeSparkline: true}, nil)
	require.NoError(t, err)
	require.Len(t, coins, 2)

	btc := coins[0]
	assert.Equal(t, "bitcoin", btc.ID)
	assert.Equal(t, 67000.5, model.Value(btc.CurrentPrice))
	require.NotNil(t, btc.MarketCapRank)
	assert.Equal(t, 1, *btc.MarketCapRank)
	require.NotNil(t, btc.Sparkline7d)
	assert.Equal(t, []float64{1, 2, 3}, btc.Sparkline7d.Price)

	mystery := coins[1]
	assert.Nil(t, mystery.CurrentPrice)
	assert.Nil(t, mystery.MarketCapRank)
	assert.Equal(t, 0.0, model.Value(mystery.MarketCap))
}

func TestMarkets_InvalidQuery(t *testing.T) {
	client := NewClient()
	_, err := client.Markets(context.Background(), MarketsQuery{Page: 0, PerPage: 10}, nil)
	assert.Error(t, err)
	_, err = client.Markets(context.Background(), MarketsQuery{Page: 1, PerPage: 0}, nil)
	assert.Error(t, err)
}

func TestGlobal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/global", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"total_market_cap":      map[string]float64{"usd": 2.5e12},
				"total_volume":          map[string]float64{"usd": 9.1e10},
				"market_cap_percentage": map[string]float64{"btc": 52.1, "eth": 17.3},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &recordingSleeper{})
	snap, err := client.Global(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2.5e12, snap.MarketCapIn("usd"))
	assert.Equal(t, 9.1e10, snap.VolumeIn("usd"))
	assert.Equal(t, 52.1, snap.Dominance("btc"))
	assert.Equal(t, 17.3, snap.Dominance("eth"))
}

func TestSimplePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		if r.URL.Query().Get("ids") == "bitcoin" {
			w.Write([]byte(`{"bitcoin":{"usd":67000}}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &recordingSleeper{})

	price, err := client.SimplePrice(context.Background(), "bitcoin", nil)
	require.NoError(t, err)
	assert.Equal(t, 67000.0, price)

	_, err = client.SimplePrice(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = client.SimplePrice(context.Background(), " ", nil)
	assert.Error(t, err)
}

func TestResolveSymbol(t *testing.T) {
	id, err := ResolveSymbol("btc")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", id)

	id, err = ResolveSymbol("avalanche-2")
	require.NoError(t, err)
	assert.Equal(t, "avalanche-2", id)

	_, err = ResolveSymbol("XYZ")
	assert.ErrorIs(t, err, ErrUnknownAsset)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Contains(t, UserMessage(&RateLimitedError{Attempts: 3}), "try again in a few minutes")
	assert.Contains(t, UserMessage(&HTTPError{StatusCode: 503}), "503")
	assert.Contains(t, UserMessage(&NetworkError{Err: errors.New("dial tcp")}), "Unable to reach")
	assert.Equal(t, "Request cancelled.", UserMessage(context.Canceled))
	assert.Equal(t, "other", UserMessage(errors.New("other")))
}
