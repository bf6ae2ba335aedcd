package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"marketScope/internal/model"
)

func TestPaginate(t *testing.T) {
	list := make([]model.Coin, 25)
	for i := range list {
		list[i] = model.Coin{ID: string(rune('a' + i))}
	}

	tests := []struct {
		name      string
		page      int
		perPage   int
		wantPage  int
		wantLen   int
		wantTotal int
		wantFirst string
	}{
		{"first page", 1, 10, 1, 10, 3, "a"},
		{"last partial page", 3, 10, 3, 5, 3, "u"},
		{"past the end clamps", 9, 10, 3, 5, 3, "u"},
		{"zero page clamps to first", 0, 10, 1, 10, 3, "a"},
		{"all", 2, 0, 1, 25, 1, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(list, tt.page, tt.perPage)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Len(t, got.Coins, tt.wantLen)
			assert.Equal(t, tt.wantTotal, got.TotalPages)
			assert.Equal(t, 25, got.Total)
			assert.Equal(t, tt.wantFirst, got.Coins[0].ID)
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	got := Paginate(nil, 3, 50)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 1, got.TotalPages)
	assert.Empty(t, got.Coins)
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 coins", CountLabel(0))
	assert.Equal(t, "1 coin", CountLabel(1))
	assert.Equal(t, "300 coins", CountLabel(300))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "N/A", FormatPrice(nil))
	assert.Equal(t, "$67,012.50", FormatPrice(model.Float(67012.5)))
	assert.Equal(t, "$1.00", FormatPrice(model.Float(1)))
	assert.Equal(t, "$0.1523", FormatPrice(model.Float(0.15234)))
	assert.Equal(t, "$0.000012", FormatPrice(model.Float(0.000012)))
	assert.Equal(t, "$0.00001234", FormatPrice(model.Float(0.00001234)))
}

func TestFormatMarketCap(t *testing.T) {
	assert.Equal(t, "N/A", FormatMarketCap(nil))
	assert.Equal(t, "$1.30T", FormatMarketCap(model.Float(1.3e12)))
	assert.Equal(t, "$412.50B", FormatMarketCap(model.Float(412.5e9)))
	assert.Equal(t, "$20.00M", FormatMarketCap(model.Float(2e7)))
	assert.Equal(t, "$1.50K", FormatMarketCap(model.Float(1500)))
	assert.Equal(t, "$999.00", FormatMarketCap(model.Float(999)))
}

func TestFormatChange(t *testing.T) {
	assert.Equal(t, "N/A", FormatChange(nil))
	assert.Equal(t, "+1.50%", FormatChange(model.Float(1.5)))
	assert.Equal(t, "-2.10%", FormatChange(model.Float(-2.1)))
}
