package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketScope/internal/coingecko"
)

func TestResolveAsset(t *testing.T) {
	cases := []struct {
		arg  string
		want string
	}{
		{"BTC", "bitcoin"},
		{"eth", "ethereum"},
		{"bitcoin", "bitcoin"},
		{"shiba-inu", "shiba-inu"},
		{"pepe", "pepe"},
		{"wrapped-steth", "wrapped-steth"},
	}
	for _, tc := range cases {
		t.Run(tc.arg, func(t *testing.T) {
			got, err := resolveAsset(tc.arg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveAsset_RejectsUnknownTicker(t *testing.T) {
	for _, arg := range []string{"PEPE", "Shiba Inu", "", "-x"} {
		_, err := resolveAsset(arg)
		assert.ErrorIs(t, err, coingecko.ErrUnknownAsset, arg)
	}
}
