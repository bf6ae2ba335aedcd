package model

// Coin is one market entry reported by the upstream listing endpoint.
// Numeric fields are nil when upstream reports null.
type Coin struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Symbol        string     `json:"symbol"`
	Image         string     `json:"image"`
	CurrentPrice  *float64   `json:"current_price"`
	MarketCap     *float64   `json:"market_cap"`
	TotalVolume   *float64   `json:"total_volume"`
	Change1h      *float64   `json:"price_change_percentage_1h_in_currency,omitempty"`
	Change24h     *float64   `json:"price_change_percentage_24h"`
	Change7d      *float64   `json:"price_change_percentage_7d_in_currency,omitempty"`
	MarketCapRank *int       `json:"market_cap_rank"`
	Sparkline7d   *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// Sparkline holds the 7-day price samples in upstream order.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// Value returns the pointed-to number or 0 when absent.
func Value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Rank returns a pointer to r.
func Rank(r int) *int {
	return &r
}
