package model

// GlobalSnapshot holds aggregate market figures from the global endpoint.
type GlobalSnapshot struct {
	TotalMarketCap      map[string]float64 `json:"total_market_cap"`
	TotalVolume         map[string]float64 `json:"total_volume"`
	MarketCapPercentage map[string]float64 `json:"market_cap_percentage"`
	ActiveCryptos       int                `json:"active_cryptocurrencies"`
	UpdatedAt           int64              `json:"updated_at"`
}

// MarketCapIn returns the total market cap in the given currency.
func (g GlobalSnapshot) MarketCapIn(currency string) float64 {
	return g.TotalMarketCap[currency]
}

// VolumeIn returns the total 24h volume in the given currency.
func (g GlobalSnapshot) VolumeIn(currency string) float64 {
	return g.TotalVolume[currency]
}

// Dominance returns the market-cap share of an asset symbol (lowercase, e.g. "btc").
func (g GlobalSnapshot) Dominance(symbol string) float64 {
	return g.MarketCapPercentage[symbol]
}
