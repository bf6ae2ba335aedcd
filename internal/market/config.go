package market

import (
	"fmt"
	"time"

	"marketScope/internal/coingecko"
)

// Page is one listing request of a fetch cycle.
type Page struct {
	Number  int
	PerPage int
}

// FetchConfig describes one logical dataset fetch. It is passed by value and
// its page list is copied on use; changing pages means building a new FetchConfig.
type FetchConfig struct {
	BaseURL          string
	Currency         string
	APIKey           string
	Pages            []Page
	MaxRetries       int
	RateLimitDelay   time.Duration
	ErrorDelay       time.Duration
	PageDelay        time.Duration
	Timeout          time.Duration
	IncludeSparkline bool
}

// DefaultPages is the canonical top-300 split: 250 on page 1, 50 on page 2.
func DefaultPages() []Page {
	return []Page{
		{Number: 1, PerPage: 250},
		{Number: 2, PerPage: 50},
	}
}

// DefaultFetchConfig returns the provider defaults.
func DefaultFetchConfig() FetchConfig {
	retry := coingecko.DefaultRetryPolicy()
	return FetchConfig{
		BaseURL:        coingecko.DefaultBaseURL,
		Currency:       coingecko.DefaultCurrency,
		Pages:          DefaultPages(),
		MaxRetries:     retry.MaxRetries,
		RateLimitDelay: retry.RateLimitDelay,
		ErrorDelay:     retry.ErrorDelay,
		PageDelay:      500 * time.Millisecond,
		Timeout:        coingecko.DefaultTimeout,
	}
}

// Validate checks the page list and retry settings.
func (c FetchConfig) Validate() error {
	if len(c.Pages) == 0 {
		return fmt.Errorf("at least one page is required")
	}
	for i, p := range c.Pages {
		if p.Number < 1 {
			return fmt.Errorf("page %d: number must be >= 1", i)
		}
		if p.PerPage < 1 {
			return fmt.Errorf("page %d: per page must be >= 1", i)
		}
		if i > 0 && p.Number <= c.Pages[i-1].Number {
			return fmt.Errorf("page %d: numbers must be ascending", i)
		}
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be >= 1")
	}
	if c.RateLimitDelay < 0 || c.ErrorDelay < 0 || c.PageDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}

// TotalSize is the number of coins a full cycle requests.
func (c FetchConfig) TotalSize() int {
	total := 0
	for _, p := range c.Pages {
		total += p.PerPage
	}
	return total
}

// ClientOptions translates the upstream part of the config into client options.
func (c FetchConfig) ClientOptions() []coingecko.ClientOption {
	opts := []coingecko.ClientOption{
		coingecko.WithRetryPolicy(coingecko.RetryPolicy{
			MaxRetries:     c.MaxRetries,
			RateLimitDelay: c.RateLimitDelay,
			ErrorDelay:     c.ErrorDelay,
		}),
	}
	if c.BaseURL != "" {
		opts = append(opts, coingecko.WithBaseURL(c.BaseURL))
	}
	if c.Currency != "" {
		opts = append(opts, coingecko.WithCurrency(c.Currency))
	}
	if c.APIKey != "" {
		opts = append(opts, coingecko.WithAPIKey(c.APIKey))
	}
	if c.Timeout > 0 {
		opts = append(opts, coingecko.WithTimeout(c.Timeout))
	}
	return opts
}

func (c FetchConfig) clone() FetchConfig {
	out := c
	out.Pages = append([]Page(nil), c.Pages...)
	return out
}
