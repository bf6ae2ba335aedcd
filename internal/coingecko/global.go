package coingecko

import (
	"context"
	"encoding/json"
	"fmt"

	"marketScope/internal/model"
)

type globalResponse struct {
	Data model.GlobalSnapshot `json:"data"`
}

// Global fetches aggregate market figures.
func (c *Client) Global(ctx context.Context, onStatus StatusFunc) (model.GlobalSnapshot, error) {
	body, err := c.FetchWithRetry(ctx, c.baseURL+"/global", onStatus)
	if err != nil {
		return model.GlobalSnapshot{}, err
	}

	var resp globalResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.GlobalSnapshot{}, fmt.Errorf("parse global: %w", err)
	}
	return resp.Data, nil
}
