package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"marketScope/internal/coingecko"
	"marketScope/internal/favorites"
	"marketScope/internal/market"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	BaseURL        string
	Currency       string
	APIKey         string
	Pages          []market.Page
	MaxRetries     int
	RateLimitDelay time.Duration
	ErrorDelay     time.Duration
	PageDelay      time.Duration
	Timeout        time.Duration
	Sparkline      bool

	FavoritesBackend string
	FavoritesPath    string
	FavoritesKey     string
	DefaultFavorites []string
	PGDSN            string

	Out           string
	Sort          string
	FavoritesOnly bool
	Search        string
	Page          int
	PerPage       int

	Listen   string
	LogLevel string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := market.DefaultFetchConfig()
	v.SetDefault("base-url", coingecko.DefaultBaseURL)
	v.SetDefault("currency", coingecko.DefaultCurrency)
	v.SetDefault("pages", FormatPages(defaults.Pages))
	v.SetDefault("max-retries", defaults.MaxRetries)
	v.SetDefault("rate-limit-delay", defaults.RateLimitDelay)
	v.SetDefault("error-delay", defaults.ErrorDelay)
	v.SetDefault("page-delay", defaults.PageDelay)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("favorites-backend", "file")
	v.SetDefault("favorites-path", "./data")
	v.SetDefault("favorites-key", favorites.DefaultKey)
	v.SetDefault("sort", "market_cap_desc")
	v.SetDefault("page", 1)
	v.SetDefault("listen", ":8080")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	pages, err := ParsePages(strings.Join(getStringSlice(v, "pages"), ","))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		BaseURL:          v.GetString("base-url"),
		Currency:         strings.ToLower(v.GetString("currency")),
		APIKey:           v.GetString("api-key"),
		Pages:            pages,
		MaxRetries:       v.GetInt("max-retries"),
		RateLimitDelay:   v.GetDuration("rate-limit-delay"),
		ErrorDelay:       v.GetDuration("error-delay"),
		PageDelay:        v.GetDuration("page-delay"),
		Timeout:          v.GetDuration("timeout"),
		Sparkline:        v.GetBool("sparkline"),
		FavoritesBackend: strings.ToLower(v.GetString("favorites-backend")),
		FavoritesPath:    v.GetString("favorites-path"),
		FavoritesKey:     v.GetString("favorites-key"),
		DefaultFavorites: getStringSlice(v, "default-favorites"),
		PGDSN:            v.GetString("pg-dsn"),
		Out:              v.GetString("out"),
		Sort:             v.GetString("sort"),
		FavoritesOnly:    v.GetBool("favorites-only"),
		Search:           v.GetString("search"),
		Page:             v.GetInt("page"),
		PerPage:          v.GetInt("per-page"),
		Listen:           v.GetString("listen"),
		LogLevel:         v.GetString("log-level"),
	}

	return cfg, nil
}

// FetchConfig builds the validated fetch configuration.
func (c Config) FetchConfig() (market.FetchConfig, error) {
	fc := market.FetchConfig{
		BaseURL:          c.BaseURL,
		Currency:         c.Currency,
		APIKey:           c.APIKey,
		Pages:            c.Pages,
		MaxRetries:       c.MaxRetries,
		RateLimitDelay:   c.RateLimitDelay,
		ErrorDelay:       c.ErrorDelay,
		PageDelay:        c.PageDelay,
		Timeout:          c.Timeout,
		IncludeSparkline: c.Sparkline,
	}
	if err := fc.Validate(); err != nil {
		return market.FetchConfig{}, err
	}
	return fc, nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
