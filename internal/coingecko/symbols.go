package coingecko

import (
	"fmt"
	"strings"
)

var symbolIDs = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"USDT":  "tether",
	"BNB":   "binancecoin",
	"SOL":   "solana",
	"XRP":   "ripple",
	"USDC":  "usd-coin",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"TRX":   "tron",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
	"LTC":   "litecoin",
	"UNI":   "uniswap",
}

// ResolveSymbol maps a well-known ticker to its upstream id.
// Inputs that already look like ids (lowercase, known values) pass through.
func ResolveSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if id, ok := symbolIDs[strings.ToUpper(symbol)]; ok {
		return id, nil
	}
	for _, id := range symbolIDs {
		if id == symbol {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownAsset, symbol)
}
