package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// USD is the fiat reference asset; its price is pinned to 1.
const USD = "USD"

var ErrNegativeAmount = errors.New("amount must not be negative")

// Quote is an asset with its price in USD.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// Result is one conversion outcome.
type Result struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
	Value  decimal.Decimal `json:"value"`
}

// Convert returns amount * fromPrice / toPrice. A zero toPrice falls back to 1.
func Convert(amount, fromPrice, toPrice decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	if toPrice.LessThanOrEqual(decimal.Zero) {
		toPrice = decimal.NewFromInt(1)
	}
	return amount.Mul(fromPrice).DivRound(toPrice, 16), nil
}

// Converter resolves symbols against a price table.
type Converter struct {
	prices map[string]decimal.Decimal
}

// NewConverter builds a Converter. USD is always present at 1.
func NewConverter(quotes []Quote) *Converter {
	prices := make(map[string]decimal.Decimal, len(quotes)+1)
	for _, q := range quotes {
		prices[strings.ToUpper(q.Symbol)] = q.Price
	}
	prices[USD] = decimal.NewFromInt(1)
	return &Converter{prices: prices}
}

// Convert converts amount of from into to. Results into USD are rounded to
// cents, everything else to 8 decimals.
func (c *Converter) Convert(amount decimal.Decimal, from, to string) (Result, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	fromPrice, ok := c.prices[from]
	if !ok {
		return Result{}, fmt.Errorf("unknown asset %q", from)
	}
	toPrice, ok := c.prices[to]
	if !ok {
		return Result{}, fmt.Errorf("unknown asset %q", to)
	}

	value, err := Convert(amount, fromPrice, toPrice)
	if err != nil {
		return Result{}, err
	}
	places := int32(8)
	if to == USD {
		places = 2
	}
	return Result{From: from, To: to, Amount: amount, Value: value.Round(places)}, nil
}
