package favorites

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_ToggleReturnsNewValue(t *testing.T) {
	original := NewSet("bitcoin")

	added := original.Toggle("ethereum")
	removed := added.Toggle("bitcoin")

	assert.Equal(t, []string{"bitcoin"}, original.IDs(), "original is never mutated")
	assert.Equal(t, []string{"bitcoin", "ethereum"}, added.IDs())
	assert.Equal(t, []string{"ethereum"}, removed.IDs())
}

func TestSet_ToggleTwiceIsIdentity(t *testing.T) {
	s := NewSet("a", "b")
	assert.True(t, s.Equal(s.Toggle("c").Toggle("c")))
	assert.True(t, s.Equal(s.Toggle("a").Toggle("a")))
}

func TestSet_ZeroValue(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("x"))
	assert.Equal(t, []string{"x"}, s.Toggle("x").IDs())

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSet_NewSetDropsBlanksAndDuplicates(t *testing.T) {
	s := NewSet("a", " ", "a", "b", "")
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewSet("solana", "bitcoin"))
	require.NoError(t, err)
	assert.Equal(t, `["bitcoin","solana"]`, string(data))

	var decoded Set
	require.NoError(t, json.Unmarshal([]byte(`["x","y","x"]`), &decoded))
	assert.Equal(t, []string{"x", "y"}, decoded.IDs())

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &decoded))
}

func TestSet_Union(t *testing.T) {
	u := NewSet("a", "b").Union(NewSet("b", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, u.IDs())
}
