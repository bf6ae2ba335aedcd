package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// SimplePrice returns the current price of one upstream asset id in the target currency.
func (c *Client) SimplePrice(ctx context.Context, id string, onStatus StatusFunc) (float64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, fmt.Errorf("asset id is required")
	}

	params := url.Values{}
	params.Set("ids", id)
	params.Set("vs_currencies", c.currency)

	body, err := c.FetchWithRetry(ctx, c.baseURL+"/simple/price?"+params.Encode(), onStatus)
	if err != nil {
		return 0, err
	}

	var resp map[string]map[string]float64
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("parse simple price: %w", err)
	}

	price, ok := resp[id][c.currency]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAsset, id)
	}
	return price, nil
}
