package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketScope/internal/market"
)

func TestParsePages(t *testing.T) {
	pages, err := ParsePages("1:250, 2:50")
	require.NoError(t, err)
	assert.Equal(t, []market.Page{{Number: 1, PerPage: 250}, {Number: 2, PerPage: 50}}, pages)
	assert.Equal(t, "1:250,2:50", FormatPages(pages))

	bad := []string{"", "1", "a:10", "1:b", "1:0", "0:10", "2:10,1:10", "1:10,1:10"}
	for _, input := range bad {
		_, err := ParsePages(input)
		assert.Error(t, err, input)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "usd", cfg.Currency)
	assert.Equal(t, market.DefaultPages(), cfg.Pages)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.RateLimitDelay)
	assert.Equal(t, 2*time.Second, cfg.ErrorDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.PageDelay)
	assert.Equal(t, "likedCoins", cfg.FavoritesKey)
	assert.Equal(t, "file", cfg.FavoritesBackend)
	assert.Equal(t, "market_cap_desc", cfg.Sort)

	fc, err := cfg.FetchConfig()
	require.NoError(t, err)
	assert.Equal(t, 300, fc.TotalSize())
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKER_CURRENCY", "EUR")
	t.Setenv("TRACKER_DEFAULT_FAVORITES", "bitcoin, ethereum")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("pages", "1:100", "")
	flags.Int("max-retries", 3, "")
	require.NoError(t, flags.Parse([]string{"--pages", "1:100,2:100,3:100", "--max-retries", "5"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "eur", cfg.Currency)
	assert.Len(t, cfg.Pages, 3)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, []string{"bitcoin", "ethereum"}, cfg.DefaultFavorites)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pages: "1:50"
favorites-backend: sqlite
default-favorites:
  - solana
  - tron
page-delay: 1s
`), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []market.Page{{Number: 1, PerPage: 50}}, cfg.Pages)
	assert.Equal(t, "sqlite", cfg.FavoritesBackend)
	assert.Equal(t, []string{"solana", "tron"}, cfg.DefaultFavorites)
	assert.Equal(t, time.Second, cfg.PageDelay)

	_, err = Load(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestLoad_InvalidPages(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TRACKER_PAGES", "2:50,1:250")
	_, err := Load("", nil)
	assert.Error(t, err)
}
