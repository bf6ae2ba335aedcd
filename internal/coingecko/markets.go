package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"marketScope/internal/model"
)

// MarketsQuery selects one page of the market listing.
type MarketsQuery struct {
	Page             int
	PerPage          int
	IncludeSparkline bool
}

// MarketsURL builds the listing URL for one page, always ordered by market cap descending.
func (c *Client) MarketsURL(q MarketsQuery) string {
	params := url.Values{}
	params.Set("vs_currency", c.currency)
	params.Set("order", "market_cap_desc")
	params.Set("per_page", strconv.Itoa(q.PerPage))
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("sparkline", strconv.FormatBool(q.IncludeSparkline))
	params.Set("price_change_percentage", "1h,24h,7d")
	return c.baseURL + "/coins/markets?" + params.Encode()
}

// Markets fetches one listing page through the retry controller.
func (c *Client) Markets(ctx context.Context, q MarketsQuery, onStatus StatusFunc) ([]model.Coin, error) {
	if q.Page < 1 {
		return nil, fmt.Errorf("page must be >= 1")
	}
	if q.PerPage < 1 {
		return nil, fmt.Errorf("per page must be >= 1")
	}

	body, err := c.FetchWithRetry(ctx, c.MarketsURL(q), onStatus)
	if err != nil {
		return nil, err
	}

	var coins []model.Coin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("parse markets page %d: %w", q.Page, err)
	}
	return coins, nil
}
